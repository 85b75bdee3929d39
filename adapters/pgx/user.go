package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lborres/userapi"
)

// userDocument is the JSONB shape of a stored user
type userDocument struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// patchDocument only carries the fields an update sets
type patchDocument struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// parseID converts id to the canonical uuid text form
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", userapi.ErrInvalidID
	}
	return parsed.String(), nil
}

func (a *Adapter) InsertUser(ctx context.Context, user *userapi.User) (string, error) {
	doc, err := json.Marshal(userDocument{
		Name:     user.Name,
		Email:    user.Email,
		Password: user.Password,
	})
	if err != nil {
		return "", err
	}

	var id string
	q := `INSERT INTO public.users (doc) VALUES ($1::jsonb) RETURNING id::text`
	if err := a.pool.QueryRow(ctx, q, string(doc)).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*userapi.User, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	q := `SELECT id::text, doc FROM public.users WHERE id = $1::uuid`
	user, err := scanUser(a.pool.QueryRow(ctx, q, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, userapi.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns users in insertion order
func (a *Adapter) ListUsers(ctx context.Context, limit int) ([]*userapi.User, error) {
	q := `SELECT id::text, doc FROM public.users ORDER BY seq LIMIT $1`
	rows, err := a.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*userapi.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser merges the patch into the stored document
func (a *Adapter) UpdateUser(ctx context.Context, id string, patch userapi.UserPatch) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	doc, err := json.Marshal(patchDocument{
		Name:     patch.Name,
		Email:    patch.Email,
		Password: patch.Password,
	})
	if err != nil {
		return err
	}

	q := `UPDATE public.users SET doc = doc || $2::jsonb WHERE id = $1::uuid`
	tag, err := a.pool.Exec(ctx, q, key, string(doc))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return userapi.ErrUserNotFound
	}
	return nil
}

func (a *Adapter) DeleteUser(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := a.pool.Exec(ctx, `DELETE FROM public.users WHERE id = $1::uuid`, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return userapi.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*userapi.User, error) {
	var id string
	var raw []byte
	if err := row.Scan(&id, &raw); err != nil {
		return nil, err
	}

	var doc userDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", userapi.ErrInconsistentRecord, err)
	}

	return &userapi.User{
		ID:       id,
		Name:     doc.Name,
		Email:    doc.Email,
		Password: doc.Password,
	}, nil
}
