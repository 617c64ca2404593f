package handlers

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
)

// Register mounts the public menu route and the admin menu routes; the
// admin routes are wrapped with requireAdmin.
func Register(mux *http.ServeMux, h *Handler, requireAdmin httpx.Middleware) {
	mh := h.MenuHandler
	mux.HandleFunc("GET /menu", mh.ListAvailable)

	mux.Handle("GET /admin/menu", requireAdmin(http.HandlerFunc(mh.ListAll)))
	mux.Handle("GET /admin/menu/{id}", requireAdmin(http.HandlerFunc(mh.Get)))
	mux.Handle("POST /admin/menu/add", requireAdmin(http.HandlerFunc(mh.Create)))
	mux.Handle("PUT /admin/menu/update/{id}", requireAdmin(http.HandlerFunc(mh.Update)))
	mux.Handle("DELETE /admin/menu/delete/{id}", requireAdmin(http.HandlerFunc(mh.Delete)))
	mux.Handle("PUT /admin/menu/toggle-stock/{id}", requireAdmin(http.HandlerFunc(mh.ToggleStock)))
}
