package database

import (
	"context"
	"net"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"restaurant-ordering/internal/common/apperr"
)

// Querier is what repositories run statements against. Both the pool and
// an open transaction satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is the subset of *pgxpool.Pool the gateway needs.
type Pool interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type Gateway struct {
	pool    Pool
	timeout time.Duration
}

func NewGateway(pool Pool, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Gateway{pool: pool, timeout: timeout}
}

// Read runs fn directly on the pool under the statement timeout.
func (g *Gateway) Read(ctx context.Context, fn func(ctx context.Context, q Querier) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return classify(ctx, fn(ctx, g.pool))
}

// WithTx runs fn inside one transaction. The transaction commits only if fn
// returns nil; any error or panic rolls it back.
func (g *Gateway) WithTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return classify(ctx, errors.Wrap(err, "begin transaction"))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return classify(ctx, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return classify(ctx, errors.Wrap(err, "commit transaction"))
	}
	return nil
}

func (g *Gateway) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return classify(ctx, g.pool.Ping(ctx))
}

// classify marks raw driver failures with a store error kind. Errors that
// already carry a kind, such as NotFound returned by fn, pass through.
func classify(ctx context.Context, err error) error {
	if err == nil || apperr.Classified(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Mark(err, apperr.ErrTimeout)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		class := pgErr.Code
		if len(class) > 2 {
			class = class[:2]
		}
		switch class {
		case "23":
			return errors.Mark(err, apperr.ErrConstraint)
		case "08", "57":
			return errors.Mark(err, apperr.ErrConnectivity)
		default:
			return errors.Mark(err, apperr.ErrQuery)
		}
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) || pgconn.SafeToRetry(err) {
		return errors.Mark(err, apperr.ErrConnectivity)
	}
	return errors.Mark(err, apperr.ErrQuery)
}

// IsUniqueViolation reports whether err is a duplicate-key failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
