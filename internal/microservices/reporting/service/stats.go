package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/common/money"
	"restaurant-ordering/internal/microservices/reporting/domain/dto"
	"restaurant-ordering/internal/microservices/reporting/repository"
)

// maxParallel bounds how many pool connections one dashboard load takes.
const maxParallel = 3

type StatsServiceInterface interface {
	Stats(ctx context.Context) dto.Stats
}

type StatsService struct {
	repo repository.StatsRepositoryInterface
	lg   *logger.Logger
	m    *metrics.Metrics
}

func NewStatsService(repo repository.StatsRepositoryInterface, lg *logger.Logger, m *metrics.Metrics) StatsServiceInterface {
	return &StatsService{repo: repo, lg: lg, m: m}
}

// Stats runs every aggregate concurrently. A failed aggregate is logged and
// reported as zero; it never fails the others.
func (ss *StatsService) Stats(ctx context.Context) dto.Stats {
	var st dto.Stats
	counts := []struct {
		name string
		dst  *int64
		fn   func(context.Context) (int64, error)
	}{
		{"completed_orders", &st.CompletedOrders, ss.repo.CompletedOrders},
		{"total_orders", &st.TotalOrders, ss.repo.TotalOrders},
		{"pending_orders", &st.PendingOrders, ss.repo.PendingOrders},
		{"menu_items", &st.MenuItemsCount, ss.repo.MenuItems},
		{"history_count", &st.HistoryCount, ss.repo.HistoryCount},
	}

	var g errgroup.Group
	g.SetLimit(maxParallel)
	for _, c := range counts {
		g.Go(func() error {
			n, err := c.fn(ctx)
			if err != nil {
				ss.failed(c.name, err)
				return nil
			}
			*c.dst = n
			return nil
		})
	}
	g.Go(func() error {
		rev, err := ss.repo.TotalRevenue(ctx)
		if err != nil {
			ss.failed("total_revenue", err)
			rev = money.Zero()
		}
		st.TotalRevenue = rev
		return nil
	})
	_ = g.Wait()
	return st
}

func (ss *StatsService) failed(aggregate string, err error) {
	ss.m.StatsFailures.WithLabelValues(aggregate).Inc()
	ss.lg.Error("dashboard_aggregate_failed", err, map[string]any{"aggregate": aggregate})
}
