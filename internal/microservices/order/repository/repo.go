package repository

import "restaurant-ordering/internal/connections/database"

type Repository struct {
	OrderRepo OrderRepositoryInterface
}

func New(gw *database.Gateway) *Repository {
	return &Repository{
		OrderRepo: NewOrderRepository(gw),
	}
}
