package core

import "context"

// UserHandler provides user operations for HTTP adapters
type UserHandler interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*UserView, error)
	ListUsers(ctx context.Context) ([]*UserView, error)
	GetUser(ctx context.Context, id string) (*UserView, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*UserView, error)
	DeleteUser(ctx context.Context, id string) error

	// Health reports whether the backing store is reachable
	Health(ctx context.Context) error
}

// HTTPAdapter binds the user endpoints to a web framework
type HTTPAdapter interface {
	RegisterRoutes(handler UserHandler, basePath string) error
}
