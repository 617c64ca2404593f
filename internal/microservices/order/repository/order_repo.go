package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/microservices/order/domain/dao"
)

type OrderRepositoryInterface interface {
	// PlaceOrder writes customer, order, items and payment in one transaction.
	PlaceOrder(ctx context.Context, p dao.Placement) (dao.Placed, error)
	ListByCustomer(ctx context.Context, name string, tableNo int) ([]dao.CustomerOrderRow, error)
	ListAll(ctx context.Context) ([]dao.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) (dao.StatusChange, error)
	// Settle archives the order to history and marks it paid in one transaction.
	Settle(ctx context.Context, orderID int64) (dao.HistoryRecord, error)
	ListHistory(ctx context.Context) ([]dao.HistoryRecord, error)
}

type OrderRepository struct {
	gw *database.Gateway
}

func NewOrderRepository(gw *database.Gateway) OrderRepositoryInterface {
	return &OrderRepository{gw: gw}
}

func (or *OrderRepository) PlaceOrder(ctx context.Context, p dao.Placement) (dao.Placed, error) {
	if p.TableNo < 1 || p.TableNo > math.MaxInt32 {
		return dao.Placed{}, apperr.Validation("table number %d out of range", p.TableNo)
	}
	for _, l := range p.Lines {
		if l.Quantity < 1 || l.Quantity > math.MaxInt32 {
			return dao.Placed{}, apperr.Validation("quantity %d for item %d out of range", l.Quantity, l.ItemID)
		}
	}

	var placed dao.Placed
	err := or.gw.WithTx(ctx, func(ctx context.Context, q database.Querier) error {
		// 1. Customer
		var customerID int64
		if err := q.QueryRow(ctx,
			`INSERT INTO customers (name, table_no) VALUES ($1, $2) RETURNING customer_id`,
			p.CustomerName, p.TableNo,
		).Scan(&customerID); err != nil {
			return errors.Wrap(err, "insert customer")
		}

		// 2. Order
		if err := q.QueryRow(ctx, `
			INSERT INTO orders (customer_id, order_status, order_time)
			VALUES ($1, $2, NOW())
			RETURNING order_id, order_time`,
			customerID, dao.StatusPending,
		).Scan(&placed.OrderID, &placed.OrderTime); err != nil {
			return errors.Wrap(err, "insert order")
		}

		// 3. Items, one statement for the whole batch
		itemIDs := make([]int64, len(p.Lines))
		quantities := make([]int32, len(p.Lines))
		for i, l := range p.Lines {
			itemIDs[i], quantities[i] = l.ItemID, int32(l.Quantity)
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO order_items (order_id, item_id, quantity)
			SELECT $1, t.item_id, t.quantity
			FROM unnest($2::int[], $3::int[]) AS t(item_id, quantity)`,
			placed.OrderID, itemIDs, quantities,
		); err != nil {
			return errors.Wrap(err, "insert order items")
		}

		// 4. Payment
		if _, err := q.Exec(ctx, `
			INSERT INTO payments (order_id, total_amount, payment_status, payment_time)
			VALUES ($1, $2, $3, NOW())`,
			placed.OrderID, p.Total, dao.StatusPending,
		); err != nil {
			return errors.Wrap(err, "insert payment")
		}
		return nil
	})
	return placed, err
}

func (or *OrderRepository) ListByCustomer(ctx context.Context, name string, tableNo int) ([]dao.CustomerOrderRow, error) {
	out := []dao.CustomerOrderRow{}
	err := or.gw.Read(ctx, func(ctx context.Context, q database.Querier) error {
		rows, err := q.Query(ctx, `
			SELECT o.order_id, o.order_status, o.order_time, oi.item_id, m.name, oi.quantity, m.price
			FROM orders o
			JOIN customers c ON o.customer_id = c.customer_id
			JOIN order_items oi ON o.order_id = oi.order_id
			JOIN menu m ON oi.item_id = m.item_id
			WHERE c.name = $1 AND c.table_no = $2
			ORDER BY o.order_time DESC, o.order_id DESC, oi.order_item_id`,
			name, tableNo)
		if err != nil {
			return errors.Wrap(err, "query customer orders")
		}
		defer rows.Close()
		for rows.Next() {
			var r dao.CustomerOrderRow
			if err := rows.Scan(&r.OrderID, &r.Status, &r.OrderTime, &r.ItemID, &r.ItemName, &r.Quantity, &r.Price); err != nil {
				return errors.Wrap(err, "scan customer order")
			}
			out = append(out, r)
		}
		return rows.Err()
	})
	return out, err
}

func (or *OrderRepository) ListAll(ctx context.Context) ([]dao.Order, error) {
	orders := []dao.Order{}
	err := or.gw.Read(ctx, func(ctx context.Context, q database.Querier) error {
		rows, err := q.Query(ctx, `
			SELECT o.order_id, c.name, c.table_no, o.order_status, o.order_time, COALESCE(p.total_amount, 0)
			FROM orders o
			JOIN customers c ON o.customer_id = c.customer_id
			LEFT JOIN payments p ON o.order_id = p.order_id
			ORDER BY o.order_time DESC, o.order_id DESC`)
		if err != nil {
			return errors.Wrap(err, "query orders")
		}
		index := map[int64]int{}
		for rows.Next() {
			var o dao.Order
			if err := rows.Scan(&o.ID, &o.CustomerName, &o.TableNo, &o.Status, &o.OrderTime, &o.Total); err != nil {
				rows.Close()
				return errors.Wrap(err, "scan order")
			}
			o.Items = []dao.OrderItem{}
			index[o.ID] = len(orders)
			orders = append(orders, o)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return errors.Wrap(err, "read orders")
		}

		items, err := q.Query(ctx, `
			SELECT oi.order_id, oi.item_id, m.name, oi.quantity, m.price
			FROM order_items oi
			JOIN menu m ON oi.item_id = m.item_id
			ORDER BY oi.order_id, oi.order_item_id`)
		if err != nil {
			return errors.Wrap(err, "query order items")
		}
		defer items.Close()
		for items.Next() {
			var orderID int64
			var it dao.OrderItem
			if err := items.Scan(&orderID, &it.ItemID, &it.Name, &it.Quantity, &it.Price); err != nil {
				return errors.Wrap(err, "scan order item")
			}
			if i, ok := index[orderID]; ok {
				orders[i].Items = append(orders[i].Items, it)
			}
		}
		return items.Err()
	})
	return orders, err
}

func (or *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, status string) (dao.StatusChange, error) {
	change := dao.StatusChange{OrderID: orderID, NewStatus: status}
	err := or.gw.WithTx(ctx, func(ctx context.Context, q database.Querier) error {
		err := q.QueryRow(ctx, `
			SELECT o.order_status, c.table_no
			FROM orders o
			JOIN customers c ON o.customer_id = c.customer_id
			WHERE o.order_id = $1
			FOR UPDATE OF o`,
			orderID,
		).Scan(&change.OldStatus, &change.TableNo)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("order %d not found", orderID)
		}
		if err != nil {
			return errors.Wrap(err, "lock order")
		}
		if change.OldStatus == dao.StatusPaid {
			return apperr.Conflict("order %d is already paid", orderID)
		}
		_, err = q.Exec(ctx, `UPDATE orders SET order_status = $2 WHERE order_id = $1`, orderID, status)
		return errors.Wrap(err, "update order status")
	})
	return change, err
}

func (or *OrderRepository) Settle(ctx context.Context, orderID int64) (dao.HistoryRecord, error) {
	rec := dao.HistoryRecord{OrderID: orderID, Status: dao.StatusPaid}
	err := or.gw.WithTx(ctx, func(ctx context.Context, q database.Querier) error {
		// 1. Lock the order; a concurrent settlement waits here.
		var status string
		err := q.QueryRow(ctx, `
			SELECT o.order_status, o.order_time, c.name, c.table_no, COALESCE(p.total_amount, 0)
			FROM orders o
			JOIN customers c ON o.customer_id = c.customer_id
			LEFT JOIN payments p ON o.order_id = p.order_id
			WHERE o.order_id = $1
			FOR UPDATE OF o`,
			orderID,
		).Scan(&status, &rec.OrderTime, &rec.CustomerName, &rec.TableNo, &rec.Total)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("order %d not found", orderID)
		}
		if err != nil {
			return errors.Wrap(err, "lock order")
		}
		if status == dao.StatusPaid {
			return apperr.Conflict("order %d is already paid", orderID)
		}

		// 2. Items for the archive copy
		rec.Items, err = settledItems(ctx, q, orderID)
		if err != nil {
			return err
		}
		rec.ItemsSummary = Summary(rec.Items)
		itemsJSON, err := json.Marshal(rec.Items)
		if err != nil {
			return errors.Wrap(err, "encode history items")
		}

		// 3. History first: if it fails nothing is marked paid.
		if err := q.QueryRow(ctx, `
			INSERT INTO order_history
				(order_id, customer_name, table_no, items, items_summary, order_status, order_time, paid_time, total_amount)
			VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, NOW(), $8)
			RETURNING history_id, paid_time`,
			orderID, rec.CustomerName, rec.TableNo, string(itemsJSON), rec.ItemsSummary,
			dao.StatusPaid, rec.OrderTime, rec.Total,
		).Scan(&rec.ID, &rec.PaidTime); err != nil {
			return errors.Wrap(err, "insert order history")
		}

		// 4. Conditional transition
		tag, err := q.Exec(ctx,
			`UPDATE orders SET order_status = $2 WHERE order_id = $1 AND order_status <> $2`,
			orderID, dao.StatusPaid)
		if err != nil {
			return errors.Wrap(err, "mark order paid")
		}
		if tag.RowsAffected() == 0 {
			return apperr.Conflict("order %d is already paid", orderID)
		}

		// 5. Payment
		_, err = q.Exec(ctx,
			`UPDATE payments SET payment_status = $2, payment_time = $3 WHERE order_id = $1`,
			orderID, dao.StatusPaid, rec.PaidTime)
		return errors.Wrap(err, "mark payment paid")
	})
	if err != nil {
		return dao.HistoryRecord{}, err
	}
	return rec, nil
}

func settledItems(ctx context.Context, q database.Querier, orderID int64) ([]dao.HistoryItem, error) {
	rows, err := q.Query(ctx, `
		SELECT oi.item_id, m.name, oi.quantity, m.price
		FROM order_items oi
		JOIN menu m ON oi.item_id = m.item_id
		WHERE oi.order_id = $1
		ORDER BY oi.order_item_id`,
		orderID)
	if err != nil {
		return nil, errors.Wrap(err, "query order items")
	}
	defer rows.Close()
	items := []dao.HistoryItem{}
	for rows.Next() {
		var it dao.HistoryItem
		if err := rows.Scan(&it.ItemID, &it.Name, &it.Quantity, &it.Price); err != nil {
			return nil, errors.Wrap(err, "scan order item")
		}
		items = append(items, it)
	}
	return items, errors.Wrap(rows.Err(), "read order items")
}

// Summary renders items as "Burger (x2), Tea (x1)".
func Summary(items []dao.HistoryItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (x%d)", it.Name, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

func (or *OrderRepository) ListHistory(ctx context.Context) ([]dao.HistoryRecord, error) {
	out := []dao.HistoryRecord{}
	err := or.gw.Read(ctx, func(ctx context.Context, q database.Querier) error {
		rows, err := q.Query(ctx, `
			SELECT history_id, order_id, customer_name, table_no, items, items_summary,
			       order_status, order_time, paid_time, total_amount
			FROM order_history
			ORDER BY paid_time DESC, history_id DESC`)
		if err != nil {
			return errors.Wrap(err, "query order history")
		}
		defer rows.Close()
		for rows.Next() {
			var (
				h     dao.HistoryRecord
				items []byte
			)
			if err := rows.Scan(&h.ID, &h.OrderID, &h.CustomerName, &h.TableNo, &items, &h.ItemsSummary,
				&h.Status, &h.OrderTime, &h.PaidTime, &h.Total); err != nil {
				return errors.Wrap(err, "scan order history")
			}
			if err := json.Unmarshal(items, &h.Items); err != nil {
				return errors.Wrapf(err, "decode items of history %d", h.ID)
			}
			out = append(out, h)
		}
		return rows.Err()
	})
	return out, err
}
