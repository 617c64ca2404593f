package repository

import "restaurant-ordering/internal/connections/database"

type Repository struct {
	MenuRepo MenuRepositoryInterface
}

func New(gw *database.Gateway) *Repository {
	return &Repository{
		MenuRepo: NewMenuRepository(gw),
	}
}
