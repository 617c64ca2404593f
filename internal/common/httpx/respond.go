package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/common/logger"
)

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError maps err to a status code and a client-safe message.
// Server-side failures are logged with full detail.
func WriteError(w http.ResponseWriter, r *http.Request, lg *logger.Logger, err error) {
	code := apperr.HTTPStatus(err)
	rid := RequestID(r.Context())
	if code >= http.StatusInternalServerError {
		lg.Error("request_failed", err, map[string]any{
			"request_id": rid,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     code,
		})
	}
	WriteJSON(w, code, errorBody{Error: apperr.Public(err), RequestID: rid})
}

// MaxJSONBody caps JSON request bodies.
const MaxJSONBody = 1 << 20

// DecodeJSON decodes a request body of at most MaxJSONBody bytes into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.Validation("request body exceeds %d bytes", MaxJSONBody)
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is empty")
		}
		return apperr.Validation("invalid JSON body: %s", err.Error())
	}
	return nil
}

// PathID parses a positive integer path value such as {id}.
func PathID(r *http.Request, key string) (int64, error) {
	raw := r.PathValue(key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s %q", key, raw)
	}
	return id, nil
}
