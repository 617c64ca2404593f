package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/common/money"
	"restaurant-ordering/internal/events"
	menudao "restaurant-ordering/internal/microservices/menu/domain/dao"
	"restaurant-ordering/internal/microservices/order/domain/dao"
	"restaurant-ordering/internal/microservices/order/domain/dto"
	"restaurant-ordering/internal/microservices/order/repository"
)

const (
	maxCustomerName = 100
	maxStatusLen    = 50
	// quantities and table numbers are INTEGER columns
	maxQuantity = math.MaxInt32
	maxTableNo  = math.MaxInt32
)

var (
	// totalTolerance is how far a client-supplied total may drift from the
	// recomputed one.
	totalTolerance = money.MustParse("0.005")
	// maxTotal is the largest NUMERIC(10,2) amount.
	maxTotal = money.MustParse("99999999.99")
)

// MenuResolver looks up menu items by id. Unknown ids are absent.
type MenuResolver interface {
	Resolve(ctx context.Context, ids []int64) (map[int64]menudao.MenuItem, error)
}

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (dto.PlaceOrderResponse, error)
	ListByCustomer(ctx context.Context, name, tableNo string) ([]dto.CustomerOrderRow, error)
	ListAll(ctx context.Context) ([]dto.AdminOrderResponse, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
	Settle(ctx context.Context, orderID int64) error
	ListHistory(ctx context.Context) ([]dto.HistoryResponse, error)
}

type OrderService struct {
	db   repository.OrderRepositoryInterface
	menu MenuResolver
	pub  events.Publisher
	lg   *logger.Logger
	m    *metrics.Metrics
}

func NewOrderService(db repository.OrderRepositoryInterface, menu MenuResolver, pub events.Publisher,
	lg *logger.Logger, m *metrics.Metrics) OrderServiceInterface {
	return &OrderService{db: db, menu: menu, pub: pub, lg: lg, m: m}
}

func (s *OrderService) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (dto.PlaceOrderResponse, error) {
	// 1. Basic validation
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return dto.PlaceOrderResponse{}, apperr.Validation("customer name is required")
	}
	if utf8.RuneCountInString(name) > maxCustomerName {
		return dto.PlaceOrderResponse{}, apperr.Validation("customer name must be at most %d characters", maxCustomerName)
	}
	if req.TableNumber <= 0 || req.TableNumber > maxTableNo {
		return dto.PlaceOrderResponse{}, apperr.Validation("table number must be between 1 and %d", maxTableNo)
	}
	if len(req.Items) == 0 {
		return dto.PlaceOrderResponse{}, apperr.Validation("at least one item is required")
	}
	ids := make([]int64, 0, len(req.Items))
	seen := make(map[int64]bool, len(req.Items))
	for _, it := range req.Items {
		if it.ItemID <= 0 {
			return dto.PlaceOrderResponse{}, apperr.Validation("invalid item id %d", it.ItemID)
		}
		if it.Quantity < 1 || it.Quantity > maxQuantity {
			return dto.PlaceOrderResponse{}, apperr.Validation("quantity for item %d must be between 1 and %d", it.ItemID, maxQuantity)
		}
		if !seen[it.ItemID] {
			seen[it.ItemID] = true
			ids = append(ids, it.ItemID)
		}
	}

	// 2. Resolve items and recompute the total
	menu, err := s.menu.Resolve(ctx, ids)
	if err != nil {
		return dto.PlaceOrderResponse{}, errors.Wrap(err, "resolve menu items")
	}
	total := money.Zero()
	lines := make([]dao.Line, 0, len(req.Items))
	for _, it := range req.Items {
		item, ok := menu[it.ItemID]
		if !ok {
			return dto.PlaceOrderResponse{}, apperr.Validation("menu item %d does not exist", it.ItemID)
		}
		if !item.InStock {
			return dto.PlaceOrderResponse{}, apperr.Validation("%s is out of stock", item.Name)
		}
		total = total.Add(item.Price.Times(int64(it.Quantity)))
		lines = append(lines, dao.Line{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	total = total.Round()
	if total.Cmp(maxTotal) > 0 {
		return dto.PlaceOrderResponse{}, apperr.Validation("order total %s exceeds the maximum of %s", total.String(), maxTotal.String())
	}
	if req.TotalPrice != nil && req.TotalPrice.Sub(total).Abs().Cmp(totalTolerance) > 0 {
		return dto.PlaceOrderResponse{}, apperr.Validation("total %s does not match menu prices (%s)", req.TotalPrice.String(), total.String())
	}

	// 3. Save
	placed, err := s.db.PlaceOrder(ctx, dao.Placement{
		CustomerName: name,
		TableNo:      int(req.TableNumber),
		Lines:        lines,
		Total:        total,
	})
	if err != nil {
		return dto.PlaceOrderResponse{}, errors.Wrap(err, "place order")
	}
	s.m.OrdersPlaced.Inc()
	s.lg.Info("order_placed", map[string]any{
		"order_id": placed.OrderID, "table_no": int(req.TableNumber), "total": total.String(), "items": len(lines),
	})

	// 4. Notify
	ev := events.New(events.OrderPlaced, placed.OrderID, dao.StatusPending)
	ev.TableNo = int(req.TableNumber)
	ev.TotalAmount = total.String()
	s.publish(ctx, ev)

	return dto.PlaceOrderResponse{
		OrderID:     placed.OrderID,
		TotalAmount: total,
		Status:      dao.StatusPending,
		Message:     "Order placed successfully!",
	}, nil
}

func (s *OrderService) ListByCustomer(ctx context.Context, name, tableNo string) ([]dto.CustomerOrderRow, error) {
	name, tableNo = strings.TrimSpace(name), strings.TrimSpace(tableNo)
	if name == "" || tableNo == "" {
		return nil, apperr.Validation("customer name and table number are required")
	}
	table, err := strconv.Atoi(tableNo)
	if err != nil || table <= 0 || table > maxTableNo {
		return nil, apperr.Validation("table number must be between 1 and %d", maxTableNo)
	}
	rows, err := s.db.ListByCustomer(ctx, name, table)
	if err != nil {
		return nil, errors.Wrap(err, "list customer orders")
	}
	return dto.ToCustomerRows(rows), nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]dto.AdminOrderResponse, error) {
	orders, err := s.db.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return dto.ToAdminOrders(orders), nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	status = strings.TrimSpace(status)
	switch {
	case status == "":
		return apperr.Validation("new status is required")
	case utf8.RuneCountInString(status) > maxStatusLen:
		return apperr.Validation("status must be at most %d characters", maxStatusLen)
	case strings.EqualFold(status, dao.StatusPaid):
		return apperr.Validation("orders are marked paid through the pay endpoint")
	}

	change, err := s.db.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return err
	}
	s.m.StatusChanges.Inc()
	s.lg.Info("order_status_changed", map[string]any{
		"order_id": orderID, "old_status": change.OldStatus, "new_status": status,
	})

	ev := events.New(events.OrderStatusChanged, orderID, status)
	ev.OldStatus = change.OldStatus
	ev.TableNo = change.TableNo
	s.publish(ctx, ev)
	return nil
}

func (s *OrderService) Settle(ctx context.Context, orderID int64) error {
	rec, err := s.db.Settle(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			s.m.SettlementConflicts.Inc()
		}
		return err
	}
	s.m.OrdersSettled.Inc()
	s.lg.Info("order_settled", map[string]any{
		"order_id": orderID, "history_id": rec.ID, "total": rec.Total.String(),
	})

	ev := events.New(events.OrderPaid, orderID, dao.StatusPaid)
	ev.TableNo = rec.TableNo
	ev.TotalAmount = rec.Total.String()
	s.publish(ctx, ev)
	return nil
}

func (s *OrderService) ListHistory(ctx context.Context) ([]dto.HistoryResponse, error) {
	recs, err := s.db.ListHistory(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list order history")
	}
	return dto.ToHistory(recs), nil
}

// publish runs after the commit; a broker failure never fails the request.
func (s *OrderService) publish(ctx context.Context, ev events.Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.lg.Warn("event_publish_failed", map[string]any{
			"event_type": string(ev.Type), "order_id": ev.OrderID, "error": err.Error(),
		})
	}
}
