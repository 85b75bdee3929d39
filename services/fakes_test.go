package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lborres/userapi/core"
)

// FakeUserStorage is a test-only fake implementing core.UserStorage.
// It stores users in a map and exposes error fields for behavior injection.
type FakeUserStorage struct {
	mu     sync.RWMutex
	users  map[string]*core.User
	order  []string
	nextID int

	insertErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
	pingErr   error

	// vanishOnInsert drops the record right after insert, as a concurrent delete would
	vanishOnInsert bool

	updateCalls int
	lastPatch   core.UserPatch
	lastLimit   int
}

func NewFakeUserStorage() *FakeUserStorage {
	return &FakeUserStorage{
		users: make(map[string]*core.User),
	}
}

func validFakeID(id string) bool {
	return strings.HasPrefix(id, "user-")
}

func (f *FakeUserStorage) InsertUser(_ context.Context, u *core.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return "", f.insertErr
	}

	f.nextID++
	id := fmt.Sprintf("user-%d", f.nextID)
	if f.vanishOnInsert {
		return id, nil
	}

	stored := *u
	stored.ID = id
	f.users[id] = &stored
	f.order = append(f.order, id)
	return id, nil
}

func (f *FakeUserStorage) GetUserByID(_ context.Context, id string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if !validFakeID(id) {
		return nil, core.ErrInvalidID
	}
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *FakeUserStorage) ListUsers(_ context.Context, limit int) ([]*core.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*core.User
	for _, id := range f.order {
		if len(out) == limit {
			break
		}
		copied := *f.users[id]
		out = append(out, &copied)
	}
	return out, nil
}

func (f *FakeUserStorage) UpdateUser(_ context.Context, id string, patch core.UserPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastPatch = patch
	if f.updateErr != nil {
		return f.updateErr
	}
	if !validFakeID(id) {
		return core.ErrInvalidID
	}
	u, ok := f.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	return nil
}

func (f *FakeUserStorage) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if !validFakeID(id) {
		return core.ErrInvalidID
	}
	if _, ok := f.users[id]; !ok {
		return core.ErrUserNotFound
	}
	delete(f.users, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *FakeUserStorage) Ping(_ context.Context) error {
	return f.pingErr
}

func (f *FakeUserStorage) Close(_ context.Context) error {
	return nil
}

// put stores u directly, bypassing InsertUser
func (f *FakeUserStorage) put(u *core.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	f.order = append(f.order, u.ID)
}

// fakeHasher marks passwords instead of hashing them
type fakeHasher struct {
	err error
}

func (h fakeHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func (h fakeHasher) Verify(password, hash string) (bool, error) {
	return hash == "hashed:"+password, nil
}

var errStoreDown = errors.New("store unavailable")

func strPtr(s string) *string {
	return &s
}
