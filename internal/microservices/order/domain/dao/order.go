package dao

import (
	"time"

	"restaurant-ordering/internal/common/money"
)

const (
	StatusPending = "Pending"
	StatusPaid    = "Paid"
)

// Line is one requested menu item and how many of it.
type Line struct {
	ItemID   int64
	Quantity int
}

// Placement is everything the placement transaction writes.
type Placement struct {
	CustomerName string
	TableNo      int
	Lines        []Line
	Total        money.Money
}

type Placed struct {
	OrderID   int64
	OrderTime time.Time
}

// CustomerOrderRow is one (order, item) pair of a customer's listing.
type CustomerOrderRow struct {
	OrderID   int64
	Status    string
	OrderTime time.Time
	ItemID    int64
	ItemName  string
	Quantity  int
	Price     money.Money
}

type OrderItem struct {
	ItemID   int64
	Name     string
	Quantity int
	Price    money.Money
}

// Order is the admin view: order, customer, payment total and items.
type Order struct {
	ID           int64
	CustomerName string
	TableNo      int
	Status       string
	OrderTime    time.Time
	Total        money.Money
	Items        []OrderItem
}

type StatusChange struct {
	OrderID   int64
	OldStatus string
	NewStatus string
	TableNo   int
}

// HistoryItem is the structured line stored in order_history.items.
type HistoryItem struct {
	ItemID   int64       `json:"item_id"`
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Price    money.Money `json:"price"`
}

type HistoryRecord struct {
	ID           int64
	OrderID      int64
	CustomerName string
	TableNo      int
	Items        []HistoryItem
	ItemsSummary string
	Status       string
	OrderTime    time.Time
	PaidTime     time.Time
	Total        money.Money
}
