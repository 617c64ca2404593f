package apperr

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("price must be >= 0"), http.StatusBadRequest},
		{"auth", Auth(), http.StatusUnauthorized},
		{"not found", NotFound("order %d not found", 7), http.StatusNotFound},
		{"conflict", Conflict("order already paid"), http.StatusConflict},
		{"constraint", errors.Mark(errors.New("dup"), ErrConstraint), http.StatusConflict},
		{"upload", Upload(errors.New("503"), "upload image"), http.StatusBadGateway},
		{"timeout", errors.Mark(errors.New("deadline"), ErrTimeout), http.StatusGatewayTimeout},
		{"connectivity", errors.Mark(errors.New("refused"), ErrConnectivity), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrappedKindSurvives(t *testing.T) {
	err := errors.Wrap(NotFound("menu item 3 not found"), "update menu item")
	require.True(t, errors.Is(err, ErrNotFound))
	require.True(t, Classified(err))
	require.False(t, Classified(errors.New("raw")))
}

func TestPublicHidesStoreDetail(t *testing.T) {
	err := errors.Mark(errors.New("dial tcp 10.0.0.5:5432: connection refused"), ErrConnectivity)
	require.Equal(t, "internal server error", Public(err))
	require.Equal(t, "price must be >= 0", Public(Validation("price must be >= 0")))
}

func TestAuthMessageIsUniform(t *testing.T) {
	require.Equal(t, Auth().Error(), Auth().Error())
	require.Equal(t, "invalid username or password", Public(Auth()))
}
