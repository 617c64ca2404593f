package repository

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/connections/database"
)

func TestAggregates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewStatsRepository(database.NewGateway(mock, time.Second))

	mock.ExpectQuery(`WHERE order_status IN \('Completed', 'Paid'\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM order_history`).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow("120.75"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM menu`).
		WillReturnError(errors.New("relation \"menu\" does not exist"))

	completed, err := repo.CompletedOrders(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 4, completed)

	revenue, err := repo.TotalRevenue(context.Background())
	require.NoError(t, err)
	require.Equal(t, "120.75", revenue.String())

	_, err = repo.MenuItems(context.Background())
	require.True(t, errors.Is(err, apperr.ErrQuery), "got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}
