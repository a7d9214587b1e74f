package storage

import (
	"context"
	"fmt"

	"arena/internal/domain/bookings"
	"arena/internal/domain/paymentsrepo"
	"arena/internal/domain/transactions"
	"arena/internal/domain/venues"
	"arena/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repos is one consistent set of repositories: either bound to the pool or
// to a single transaction.
type Repos struct {
	Venues       venues.Store
	Bookings     bookings.Store
	Transactions transactions.Store
	Payments     paymentsrepo.Store
	PayLogs      paymentsrepo.LogsStore
}

// Store is what the services depend on. Postgres and the in-memory store
// both implement it.
type Store interface {
	Repos() *Repos
	// WithTx runs fn atomically. If fn returns an error nothing it did is kept.
	WithTx(ctx context.Context, fn func(r *Repos) error) error
}

func newRepos(q dbx.Querier) *Repos {
	return &Repos{
		Venues:       venues.NewRepository(q),
		Bookings:     bookings.NewRepository(q),
		Transactions: transactions.NewRepository(q),
		Payments:     paymentsrepo.NewRepository(q),
		PayLogs:      paymentsrepo.NewLogsRepository(q),
	}
}

type Container struct {
	pool  *pgxpool.Pool
	repos *Repos
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{pool: db, repos: newRepos(db)}
}

func (c *Container) Repos() *Repos { return c.repos }

func (c *Container) WithTx(ctx context.Context, fn func(r *Repos) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	if err := fn(newRepos(tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
