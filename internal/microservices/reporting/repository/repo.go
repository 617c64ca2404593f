package repository

import "restaurant-ordering/internal/connections/database"

type Repository struct {
	StatsRepo StatsRepositoryInterface
}

func New(gw *database.Gateway) *Repository {
	return &Repository{
		StatsRepo: NewStatsRepository(gw),
	}
}
