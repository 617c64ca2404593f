package repository

import "restaurant-ordering/internal/connections/database"

type Repository struct {
	AdminRepo AdminRepositoryInterface
}

func New(gw *database.Gateway) *Repository {
	return &Repository{
		AdminRepo: NewAdminRepository(gw),
	}
}
