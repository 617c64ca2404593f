package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/microservices/admin/domain/dto"
	"restaurant-ordering/internal/microservices/admin/service"
)

type stubService struct{}

func (stubService) Login(_ context.Context, username, password string) (dto.LoginResponse, error) {
	if username == "admin" && password == "pw" {
		return dto.LoginResponse{Message: "Login successful", Token: "good", Username: "admin"}, nil
	}
	return dto.LoginResponse{}, apperr.Auth()
}

func (stubService) CreateAdmin(context.Context, string, string) (int64, error) { return 1, nil }

func (stubService) VerifyToken(token string) (string, error) {
	if token == "good" {
		return "admin", nil
	}
	return "", service.ErrInvalidToken
}

func TestLogin(t *testing.T) {
	h := NewAdminHandler(stubService{}, logger.Nop())
	mux := http.NewServeMux()
	Register(mux, &Handler{AdminHandler: h})

	tests := []struct {
		body string
		want int
	}{
		{`{"username":"admin","password":"pw"}`, http.StatusOK},
		{`{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{`{"username":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(tt.body)))
		require.Equal(t, tt.want, w.Code, tt.body)
	}
}

func TestRequireAdmin(t *testing.T) {
	h := NewAdminHandler(stubService{}, logger.Nop())
	var seen string
	protected := h.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httpx.Admin(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
		{"good token", "Bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			r := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			protected.ServeHTTP(w, r)
			require.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusNoContent {
				require.Equal(t, "admin", seen)
			} else {
				require.Empty(t, seen)
				require.Contains(t, w.Body.String(), "missing or invalid admin token")
			}
		})
	}
}
