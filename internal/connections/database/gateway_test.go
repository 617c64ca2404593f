package database

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/common/logger"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	mock := newMock(t)
	gw := NewGateway(mock, time.Second)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO customers").
		WithArgs("Ana", 4).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := gw.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
		_, err := q.Exec(ctx, "INSERT INTO customers (name, table_no) VALUES ($1, $2)", "Ana", 4)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackAndKeepsDomainError(t *testing.T) {
	mock := newMock(t)
	gw := NewGateway(mock, time.Second)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := gw.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
		return apperr.NotFound("order %d not found", 9)
	})
	require.True(t, errors.Is(err, apperr.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	mock := newMock(t)
	gw := NewGateway(mock, time.Second)

	mock.ExpectBegin()
	mock.ExpectRollback()

	require.Panics(t, func() {
		_ = gw.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
			panic("boom")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_ClassifiesDriverErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, apperr.ErrConstraint},
		{"check violation", &pgconn.PgError{Code: "23514"}, apperr.ErrConstraint},
		{"connection failure", &pgconn.PgError{Code: "08006"}, apperr.ErrConnectivity},
		{"syntax error", &pgconn.PgError{Code: "42601"}, apperr.ErrQuery},
		{"plain error", errors.New("unexpected"), apperr.ErrQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			gw := NewGateway(mock, time.Second)

			mock.ExpectBegin()
			mock.ExpectExec("UPDATE orders").WillReturnError(tt.err)
			mock.ExpectRollback()

			err := gw.WithTx(context.Background(), func(ctx context.Context, q Querier) error {
				_, err := q.Exec(ctx, "UPDATE orders SET order_status = $1", "x")
				return err
			})
			require.True(t, errors.Is(err, tt.kind), "got %v", err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRead_TimeoutIsDistinct(t *testing.T) {
	mock := newMock(t)
	gw := NewGateway(mock, 10*time.Millisecond)

	err := gw.Read(context.Background(), func(ctx context.Context, q Querier) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.True(t, errors.Is(err, apperr.ErrTimeout))
}

func TestWithTx_BeginFailureIsConnectivity(t *testing.T) {
	mock := newMock(t)
	gw := NewGateway(mock, time.Second)

	mock.ExpectBegin().WillReturnError(&pgconn.PgError{Code: "08001"})

	err := gw.WithTx(context.Background(), func(ctx context.Context, q Querier) error { return nil })
	require.True(t, errors.Is(err, apperr.ErrConnectivity))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_SkipsApplied(t *testing.T) {
	mock := newMock(t)
	fsys := fstest.MapFS{
		"migrations/0001_init.sql": {Data: []byte("CREATE TABLE a (id INT)")},
		"migrations/0002_more.sql": {Data: []byte("CREATE TABLE b (id INT)")},
		"migrations/README.md":     {Data: []byte("ignored")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT migration_name FROM schema_migrations").
		WillReturnRows(pgxmock.NewRows([]string{"migration_name"}).AddRow("0001_init.sql"))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE b").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("0002_more.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, migrate(context.Background(), mock, fsys, logger.Nop()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, IsUniqueViolation(errors.Wrap(&pgconn.PgError{Code: "23505"}, "insert")))
	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
