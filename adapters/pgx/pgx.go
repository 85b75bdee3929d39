// Package pgx stores users as JSONB documents in PostgreSQL.
package pgx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lborres/userapi"
)

const schema = `
CREATE TABLE IF NOT EXISTS public.users (
	id  uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	seq bigserial NOT NULL,
	doc jsonb NOT NULL
);
CREATE INDEX IF NOT EXISTS users_seq_idx ON public.users (seq);`

type Adapter struct {
	pool *pgxpool.Pool
}

var _ userapi.UserStorage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}

// Open connects to dsn and makes sure the users table exists
func Open(ctx context.Context, dsn string) (*Adapter, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	a := New(pool)
	if err := a.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return a, nil
}

// EnsureSchema creates the users table when missing. It never alters an existing one.
func (a *Adapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.pool.Ping(ctx)
}

func (a *Adapter) Close(_ context.Context) error {
	a.pool.Close()
	return nil
}
