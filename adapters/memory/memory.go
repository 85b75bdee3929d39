// Package memory is an in-process user store. Records live in a map keyed by
// nanoid, and listing follows insertion order.
package memory

import (
	"context"
	"sync"

	"github.com/lborres/userapi"
	"github.com/lborres/userapi/pkg/crypto"
)

type Adapter struct {
	mu     sync.RWMutex
	users  map[string]*userapi.User
	order  []string
	ids    *crypto.NanoIDGenerator
	closed bool
}

var _ userapi.UserStorage = (*Adapter)(nil)

func New() *Adapter {
	ids, err := crypto.NewNanoID("", crypto.DefaultIDSize)
	if err != nil {
		// the default alphabet is always valid
		panic(err)
	}
	return &Adapter{
		users: make(map[string]*userapi.User),
		ids:   ids,
	}
}

func (a *Adapter) InsertUser(ctx context.Context, user *userapi.User) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := a.ids.Generate()
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return "", ErrClosed
	}

	stored := *user
	stored.ID = id
	a.users[id] = &stored
	a.order = append(a.order, id)
	return id, nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*userapi.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !a.ids.Valid(id) {
		return nil, userapi.ErrInvalidID
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, ErrClosed
	}

	user, ok := a.users[id]
	if !ok {
		return nil, userapi.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (a *Adapter) ListUsers(ctx context.Context, limit int) ([]*userapi.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, ErrClosed
	}

	n := len(a.order)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*userapi.User, 0, n)
	for _, id := range a.order[:n] {
		copied := *a.users[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (a *Adapter) UpdateUser(ctx context.Context, id string, patch userapi.UserPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !a.ids.Valid(id) {
		return userapi.ErrInvalidID
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	user, ok := a.users[id]
	if !ok {
		return userapi.ErrUserNotFound
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		user.Password = *patch.Password
	}
	return nil
}

func (a *Adapter) DeleteUser(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !a.ids.Valid(id) {
		return userapi.ErrInvalidID
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	if _, ok := a.users[id]; !ok {
		return userapi.ErrUserNotFound
	}
	delete(a.users, id)
	for i, existing := range a.order {
		if existing == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	return nil
}

func (a *Adapter) Close(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

// Len returns the number of stored users
func (a *Adapter) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.users)
}
