package handlers

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
)

func Register(mux *http.ServeMux, h *Handler, requireAdmin httpx.Middleware) {
	oh := h.OrderHandler
	mux.HandleFunc("POST /orders", oh.PlaceOrder)
	mux.HandleFunc("GET /orders", oh.ListByCustomer)

	mux.Handle("GET /admin/orders", requireAdmin(http.HandlerFunc(oh.ListAll)))
	mux.Handle("POST /admin/orders/{id}/status", requireAdmin(http.HandlerFunc(oh.UpdateStatus)))
	mux.Handle("POST /admin/orders/{id}/pay", requireAdmin(http.HandlerFunc(oh.Settle)))
	mux.Handle("GET /admin/order-history", requireAdmin(http.HandlerFunc(oh.ListHistory)))
}
