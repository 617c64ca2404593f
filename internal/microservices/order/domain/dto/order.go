package dto

import (
	"bytes"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/money"
	"restaurant-ordering/internal/microservices/order/domain/dao"
)

// TableNumber accepts a JSON number or a numeric string; form inputs in
// the ordering UI send the latter.
type TableNumber int

func (t *TableNumber) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*t = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return errors.Newf("invalid table number %q", b)
	}
	*t = TableNumber(n)
	return nil
}

type OrderLine struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type PlaceOrderRequest struct {
	CustomerName string       `json:"customerName"`
	TableNumber  TableNumber  `json:"tableNumber"`
	Items        []OrderLine  `json:"items"`
	TotalPrice   *money.Money `json:"totalPrice,omitempty"`
}

type PlaceOrderResponse struct {
	OrderID     int64       `json:"orderId"`
	TotalAmount money.Money `json:"totalAmount"`
	Status      string      `json:"status"`
	Message     string      `json:"message"`
}

type CustomerOrderRow struct {
	OrderID   int64       `json:"order_id"`
	Status    string      `json:"order_status"`
	OrderTime time.Time   `json:"order_time"`
	ItemID    int64       `json:"item_id"`
	ItemName  string      `json:"item_name"`
	Quantity  int         `json:"quantity"`
	Price     money.Money `json:"price"`
}

type OrderItemResponse struct {
	ItemID   int64       `json:"item_id"`
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Price    money.Money `json:"price"`
}

type AdminOrderResponse struct {
	OrderID      int64               `json:"order_id"`
	CustomerName string              `json:"customer_name"`
	TableNo      int                 `json:"table_no"`
	Status       string              `json:"order_status"`
	OrderTime    time.Time           `json:"order_time"`
	TotalAmount  money.Money         `json:"total_amount"`
	Items        []OrderItemResponse `json:"items"`
}

type StatusRequest struct {
	NewStatus string `json:"newStatus"`
}

type ResultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type HistoryResponse struct {
	HistoryID    int64             `json:"history_id"`
	OrderID      int64             `json:"order_id"`
	CustomerName string            `json:"customer_name"`
	TableNo      int               `json:"table_no"`
	Items        []dao.HistoryItem `json:"items"`
	ItemsSummary string            `json:"items_summary"`
	Status       string            `json:"order_status"`
	OrderTime    time.Time         `json:"order_time"`
	PaidTime     time.Time         `json:"paid_time"`
	TotalAmount  money.Money       `json:"total_amount"`
}

func ToCustomerRows(rows []dao.CustomerOrderRow) []CustomerOrderRow {
	out := make([]CustomerOrderRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, CustomerOrderRow(r))
	}
	return out
}

func ToAdminOrders(orders []dao.Order) []AdminOrderResponse {
	out := make([]AdminOrderResponse, 0, len(orders))
	for _, o := range orders {
		items := make([]OrderItemResponse, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, OrderItemResponse(it))
		}
		out = append(out, AdminOrderResponse{
			OrderID:      o.ID,
			CustomerName: o.CustomerName,
			TableNo:      o.TableNo,
			Status:       o.Status,
			OrderTime:    o.OrderTime,
			TotalAmount:  o.Total,
			Items:        items,
		})
	}
	return out
}

func ToHistory(recs []dao.HistoryRecord) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(recs))
	for _, h := range recs {
		items := h.Items
		if items == nil {
			items = []dao.HistoryItem{}
		}
		out = append(out, HistoryResponse{
			HistoryID:    h.ID,
			OrderID:      h.OrderID,
			CustomerName: h.CustomerName,
			TableNo:      h.TableNo,
			Items:        items,
			ItemsSummary: h.ItemsSummary,
			Status:       h.Status,
			OrderTime:    h.OrderTime,
			PaidTime:     h.PaidTime,
			TotalAmount:  h.Total,
		})
	}
	return out
}
