package handlers

import (
	"net/http"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/microservices/reporting/service"
)

type Handler struct {
	StatsHandler *StatsHandler
}

func New(s *service.Service) *Handler {
	return &Handler{StatsHandler: NewStatsHandler(s.StatsService)}
}

func Register(mux *http.ServeMux, h *Handler, requireAdmin httpx.Middleware) {
	mux.Handle("GET /admin/dashboard/stats", requireAdmin(http.HandlerFunc(h.StatsHandler.Stats)))
}

type StatsHandler struct {
	service service.StatsServiceInterface
}

func NewStatsHandler(s service.StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: s}
}

// Stats always answers 200; failed aggregates show as zero.
func (sh *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, sh.service.Stats(r.Context()))
}
