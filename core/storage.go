package core

import "context"

// UserStorage is the data access port for the users collection.
//
// Implementations parse ids into their native key type and return
// ErrInvalidID for malformed ids, ErrUserNotFound when nothing matched.
type UserStorage interface {
	InsertUser(ctx context.Context, u *User) (string, error)

	GetUserByID(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, limit int) ([]*User, error)

	UpdateUser(ctx context.Context, id string, patch UserPatch) error

	DeleteUser(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
