package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lborres/userapi/core"
	"github.com/lborres/userapi/pkg/crypto"
	"github.com/lborres/userapi/pkg/logging"
)

// DefaultListLimit caps how many users a list call returns. A configured
// limit may lower it but never raise it.
const DefaultListLimit = 100

type UserService struct {
	storage        core.UserStorage
	passwordHasher crypto.PasswordHandler
	validator      *core.Validator
	listLimit      int
}

// Ensure UserService implements UserHandler
var _ core.UserHandler = (*UserService)(nil)

func NewUserService(storage core.UserStorage, passwordHasher crypto.PasswordHandler, listLimit int) *UserService {
	if listLimit <= 0 || listLimit > DefaultListLimit {
		listLimit = DefaultListLimit
	}
	return &UserService{
		storage:        storage,
		passwordHasher: passwordHasher,
		validator:      core.NewValidator(),
		listLimit:      listLimit,
	}
}

// CreateUser validates input, stores the user and reads it back by its new id
func (s *UserService) CreateUser(ctx context.Context, input core.CreateUserInput) (*core.UserView, error) {
	if err := s.validator.Validate(&input); err != nil {
		return nil, err
	}

	hashedPassword, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.storage.InsertUser(ctx, &core.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	// Not transactional: a concurrent delete can remove the record first
	user, err := s.storage.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) || errors.Is(err, core.ErrInvalidID) {
			return nil, fmt.Errorf("%w: user %s missing after insert", core.ErrCreationFailed, id)
		}
		return nil, fmt.Errorf("failed to read back user %s: %w", id, err)
	}

	logging.FromContext(ctx).Info().Str("user_id", id).Msg("user created")

	return core.NewUserView(user)
}

// ListUsers returns at most listLimit users in store-native order
func (s *UserService) ListUsers(ctx context.Context) ([]*core.UserView, error) {
	users, err := s.storage.ListUsers(ctx, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	views := make([]*core.UserView, 0, len(users))
	for _, u := range users {
		view, err := core.NewUserView(u)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", u.ID, err)
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*core.UserView, error) {
	user, err := s.storage.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return core.NewUserView(user)
}

// UpdateUser applies only the supplied fields, then returns the stored result.
// Zero matched records is ErrUserNotFound; a match that changed nothing is a success.
func (s *UserService) UpdateUser(ctx context.Context, id string, input core.UpdateUserInput) (*core.UserView, error) {
	if err := s.validator.Validate(&input); err != nil {
		return nil, err
	}

	patch := core.UserPatch{
		Name:  input.Name,
		Email: input.Email,
	}
	if input.Password != nil {
		hashedPassword, err := s.passwordHasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patch.Password = &hashedPassword
	}

	if !patch.IsEmpty() {
		if err := s.storage.UpdateUser(ctx, id, patch); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		logging.FromContext(ctx).Info().Str("user_id", id).Msg("user updated")
	}

	user, err := s.storage.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read back user: %w", err)
	}
	return core.NewUserView(user)
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.storage.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logging.FromContext(ctx).Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) Health(ctx context.Context) error {
	return s.storage.Ping(ctx)
}
