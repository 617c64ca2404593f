package handlers

import (
	"net/http"
	"strings"

	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/microservices/admin/domain/dto"
	"restaurant-ordering/internal/microservices/admin/service"
)

type AdminHandler struct {
	service service.AdminServiceInterface
	lg      *logger.Logger
}

func NewAdminHandler(s service.AdminServiceInterface, lg *logger.Logger) *AdminHandler {
	return &AdminHandler{service: s, lg: lg}
}

func (ah *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, ah.lg, err)
		return
	}
	resp, err := ah.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.WriteError(w, r, ah.lg, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// RequireAdmin rejects requests without a valid "Authorization: Bearer" token.
func (ah *AdminHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			httpx.WriteError(w, r, ah.lg, service.ErrInvalidToken)
			return
		}
		username, err := ah.service.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			httpx.WriteError(w, r, ah.lg, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(httpx.WithAdmin(r.Context(), username)))
	})
}
