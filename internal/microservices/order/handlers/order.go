package handlers

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/microservices/order/domain/dto"
	"restaurant-ordering/internal/microservices/order/service"
)

type OrderHandler struct {
	service service.OrderServiceInterface
	lg      *logger.Logger
}

func NewOrderHandler(s service.OrderServiceInterface, lg *logger.Logger) *OrderHandler {
	return &OrderHandler{service: s, lg: lg}
}

func (oh *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceOrderRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, oh.lg, err)
		return
	}

	resp, err := oh.service.PlaceOrder(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, oh.lg, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

func (oh *OrderHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := oh.service.ListByCustomer(r.Context(), q.Get("name"), q.Get("table_no"))
	if err != nil {
		httpx.WriteError(w, r, oh.lg, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rows)
}

func (oh *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := oh.service.ListAll(r.Context())
	if err != nil {
		httpx.WriteError(w, r, oh.lg, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (oh *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, oh.lg, err)
		return
	}
	var req dto.StatusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, oh.lg, err)
		return
	}
	if err := oh.service.UpdateStatus(r.Context(), id, req.NewStatus); err != nil {
		httpx.WriteError(w, r, oh.lg, err)
		return
	}
	httpx.Audit(oh.lg, r, "admin_order_status_set", map[string]any{"order_id": id, "new_status": req.NewStatus})
	httpx.WriteJSON(w, http.StatusOK, dto.ResultResponse{Success: true})
}

func (oh *OrderHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, oh.lg, err)
		return
	}
	if err := oh.service.Settle(r.Context(), id); err != nil {
		httpx.WriteError(w, r, oh.lg, err)
		return
	}
	httpx.Audit(oh.lg, r, "admin_order_settled", map[string]any{"order_id": id})
	httpx.WriteJSON(w, http.StatusOK, dto.ResultResponse{
		Success: true,
		Message: "Order marked as Paid and moved to history.",
	})
}

func (oh *OrderHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	recs, err := oh.service.ListHistory(r.Context())
	if err != nil {
		httpx.WriteError(w, r, oh.lg, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, recs)
}
