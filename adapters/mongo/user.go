package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lborres/userapi"
)

// userDocument is the BSON shape of a stored user
type userDocument struct {
	ID       bson.ObjectID `bson:"_id,omitempty"`
	Name     string        `bson:"name"`
	Email    string        `bson:"email"`
	Password string        `bson:"password"`
}

func (d *userDocument) toUser() *userapi.User {
	user := &userapi.User{
		Name:     d.Name,
		Email:    d.Email,
		Password: d.Password,
	}
	if !d.ID.IsZero() {
		user.ID = d.ID.Hex()
	}
	return user
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, userapi.ErrInvalidID
	}
	return oid, nil
}

// setDocument builds the $set body for the supplied fields only
func setDocument(patch userapi.UserPatch) bson.D {
	set := bson.D{}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *patch.Email})
	}
	if patch.Password != nil {
		set = append(set, bson.E{Key: "password", Value: *patch.Password})
	}
	return set
}

func (a *Adapter) InsertUser(ctx context.Context, user *userapi.User) (string, error) {
	result, err := a.users.InsertOne(ctx, userDocument{
		Name:     user.Name,
		Email:    user.Email,
		Password: user.Password,
	})
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("%w: inserted id has type %T", userapi.ErrInconsistentRecord, result.InsertedID)
	}
	return oid.Hex(), nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*userapi.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := a.users.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, userapi.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toUser(), nil
}

// ListUsers returns users in natural order, which is insertion order for
// an unsharded collection without deletes.
func (a *Adapter) ListUsers(ctx context.Context, limit int) ([]*userapi.User, error) {
	cursor, err := a.users.Find(ctx, bson.D{}, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]*userapi.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toUser())
	}
	return users, nil
}

// UpdateUser sets only the supplied fields. A matched document counts as
// updated even when none of its values changed.
func (a *Adapter) UpdateUser(ctx context.Context, id string, patch userapi.UserPatch) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	set := setDocument(patch)
	if len(set) == 0 {
		return nil
	}

	result, err := a.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return userapi.ErrUserNotFound
	}
	return nil
}

func (a *Adapter) DeleteUser(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := a.users.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return userapi.ErrUserNotFound
	}
	return nil
}
