package handlers

import "net/http"

func Register(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /admin/login", h.AdminHandler.Login)
}
