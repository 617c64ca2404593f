package apperr

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// Error kinds. Concrete errors are marked with one of these so that
// errors.Is(err, ErrNotFound) works across wrapping.
var (
	ErrValidation   = errors.New("validation failed")
	ErrAuth         = errors.New("invalid username or password")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrConnectivity = errors.New("store unreachable")
	ErrConstraint   = errors.New("constraint violation")
	ErrQuery        = errors.New("query failed")
	ErrUpload       = errors.New("blob operation failed")
	ErrTimeout      = errors.New("operation timed out")
)

var kinds = []error{
	ErrValidation, ErrAuth, ErrNotFound, ErrConflict,
	ErrConnectivity, ErrConstraint, ErrQuery, ErrUpload, ErrTimeout,
}

func Validation(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidation)
}

func NotFound(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotFound)
}

func Conflict(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrConflict)
}

// Auth always carries the same message so callers cannot tell a missing
// user from a wrong password.
func Auth() error {
	return errors.Mark(errors.New(ErrAuth.Error()), ErrAuth)
}

func Upload(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrUpload)
}

// Classified reports whether err already carries one of the kinds above.
func Classified(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrConstraint):
		return http.StatusConflict
	case errors.Is(err, ErrUpload):
		return http.StatusBadGateway
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Public returns the message safe to show to a client. Store and blob
// failures are reduced to a generic text; their detail stays in the logs.
func Public(err error) string {
	switch HTTPStatus(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
		return err.Error()
	case http.StatusConflict:
		if errors.Is(err, ErrConstraint) {
			return "request conflicts with existing data"
		}
		return err.Error()
	case http.StatusBadGateway:
		return "image storage is unavailable"
	case http.StatusGatewayTimeout:
		return "request timed out"
	default:
		return "internal server error"
	}
}
