package repository

import (
	"context"

	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/money"
	"restaurant-ordering/internal/connections/database"
)

// StatsRepositoryInterface exposes one query per dashboard aggregate so
// each can fail on its own.
type StatsRepositoryInterface interface {
	CompletedOrders(ctx context.Context) (int64, error)
	TotalOrders(ctx context.Context) (int64, error)
	PendingOrders(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (money.Money, error)
	MenuItems(ctx context.Context) (int64, error)
	HistoryCount(ctx context.Context) (int64, error)
}

type StatsRepository struct {
	gw *database.Gateway
}

func NewStatsRepository(gw *database.Gateway) StatsRepositoryInterface {
	return &StatsRepository{gw: gw}
}

func (sr *StatsRepository) CompletedOrders(ctx context.Context) (int64, error) {
	return sr.count(ctx, `SELECT COUNT(*) FROM orders WHERE order_status IN ('Completed', 'Paid')`)
}

func (sr *StatsRepository) TotalOrders(ctx context.Context) (int64, error) {
	return sr.count(ctx, `SELECT COUNT(*) FROM orders`)
}

func (sr *StatsRepository) PendingOrders(ctx context.Context) (int64, error) {
	return sr.count(ctx, `SELECT COUNT(*) FROM orders WHERE order_status = 'Pending'`)
}

func (sr *StatsRepository) MenuItems(ctx context.Context) (int64, error) {
	return sr.count(ctx, `SELECT COUNT(*) FROM menu`)
}

func (sr *StatsRepository) HistoryCount(ctx context.Context) (int64, error) {
	return sr.count(ctx, `SELECT COUNT(*) FROM order_history`)
}

func (sr *StatsRepository) TotalRevenue(ctx context.Context) (money.Money, error) {
	var total money.Money
	err := sr.gw.Read(ctx, func(ctx context.Context, q database.Querier) error {
		err := q.QueryRow(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM order_history`).Scan(&total)
		return errors.Wrap(err, "sum revenue")
	})
	return total, err
}

func (sr *StatsRepository) count(ctx context.Context, sql string) (int64, error) {
	var n int64
	err := sr.gw.Read(ctx, func(ctx context.Context, q database.Querier) error {
		return errors.Wrap(q.QueryRow(ctx, sql).Scan(&n), "count")
	})
	return n, err
}
