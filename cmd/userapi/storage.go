package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/lborres/userapi"
	"github.com/lborres/userapi/adapters/memory"
	mongoadapter "github.com/lborres/userapi/adapters/mongo"
	pgxadapter "github.com/lborres/userapi/adapters/pgx"
	"github.com/lborres/userapi/config"
)

// openStorage builds the one store handle shared by every request.
// The backend is chosen by the URI scheme.
func openStorage(ctx context.Context, db config.Database) (userapi.UserStorage, error) {
	u, err := url.Parse(db.URI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", userapi.ErrUnsupportedStorage, err)
	}

	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		store, err := mongoadapter.Open(ctx, db.URI, db.Name)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres", "postgresql":
		store, err := pgxadapter.Open(ctx, db.URI)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: scheme %q", userapi.ErrUnsupportedStorage, u.Scheme)
	}
}
