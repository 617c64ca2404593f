package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation passes message", apperr.Validation("customerName is required"), http.StatusBadRequest, "customerName is required"},
		{"conflict", apperr.Conflict("order 4 is already paid"), http.StatusConflict, "order 4 is already paid"},
		{"store failure is opaque", errors.Mark(errors.New("dial tcp: refused"), apperr.ErrConnectivity), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/x", nil)
			r = r.WithContext(WithRequestID(r.Context(), "req-1"))
			w := httptest.NewRecorder()

			WriteError(w, r, logger.Nop(), tt.err)

			require.Equal(t, tt.wantCode, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Equal(t, tt.wantMsg, body["error"])
			require.Equal(t, "req-1", body["request_id"])
		})
	}
}

func TestAssignRequestID(t *testing.T) {
	var seen string
	h := AssignRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	require.Equal(t, seen, w.Header().Get(RequestIDHeader))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "abc")
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.Equal(t, "abc", seen)
}

func TestRecover(t *testing.T) {
	h := Recover(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "boom")
}

func TestLoggingRecordsRoutePattern(t *testing.T) {
	m := metrics.New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Chain(mux, AssignRequestID, Logging(logger.Nop(), m))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "GET /items/{id}", "418")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got int64
	var gotErr error
	mux.HandleFunc("GET /o/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = PathID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/o/42", nil))
	require.NoError(t, gotErr)
	require.EqualValues(t, 42, got)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/o/abc", nil))
	require.True(t, errors.Is(gotErr, apperr.ErrValidation))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct{ Name string }
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"Name":"x"}`},
		{name: "empty", body: ``, wantErr: "request body is empty"},
		{name: "malformed", body: `{`, wantErr: "invalid JSON body"},
		{name: "oversized", body: `{"Name":"` + strings.Repeat("a", MaxJSONBody) + `"}`,
			wantErr: "request body exceeds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst.Name = ""
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := DecodeJSON(httptest.NewRecorder(), r, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.Equal(t, "x", dst.Name)
				return
			}
			require.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAudit(t *testing.T) {
	var buf bytes.Buffer
	r := httptest.NewRequest(http.MethodPut, "/admin/menu/toggle-stock/3", nil)
	r = r.WithContext(WithAdmin(WithRequestID(r.Context(), "req-9"), "manager"))

	Audit(logger.NewWithWriter("api", &buf), r, "admin_menu_stock_toggled", map[string]any{"item_id": 3})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "manager", entry["admin"])
	require.Equal(t, "req-9", entry["request_id"])
	require.EqualValues(t, 3, entry["item_id"])
	require.Empty(t, Admin(httptest.NewRequest(http.MethodGet, "/menu", nil).Context()))
}
