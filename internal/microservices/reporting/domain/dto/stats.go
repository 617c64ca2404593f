package dto

import "restaurant-ordering/internal/common/money"

// Stats feeds the admin dashboard. A field whose aggregate failed is zero.
type Stats struct {
	CompletedOrders int64       `json:"completedOrders"`
	TotalOrders     int64       `json:"totalOrders"`
	PendingOrders   int64       `json:"pendingOrders"`
	TotalRevenue    money.Money `json:"totalRevenue"`
	MenuItemsCount  int64       `json:"menuItemsCount"`
	HistoryCount    int64       `json:"historyCount"`
}
