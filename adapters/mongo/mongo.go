// Package mongo stores users in a MongoDB collection keyed by ObjectID.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/lborres/userapi"
)

// CollectionName is the collection users are stored in
const CollectionName = "users"

type Adapter struct {
	client *mongo.Client
	users  *mongo.Collection
}

var _ userapi.UserStorage = (*Adapter)(nil)

// New wraps an already connected client. The users collection of database is used.
func New(client *mongo.Client, database string) *Adapter {
	return &Adapter{
		client: client,
		users:  client.Database(database).Collection(CollectionName),
	}
}

// Open builds one client for uri and checks the server answers.
// The client is shared by every request until Close.
func Open(ctx context.Context, uri, database string) (*Adapter, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return New(client, database), nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx, readpref.Primary())
}

func (a *Adapter) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}
