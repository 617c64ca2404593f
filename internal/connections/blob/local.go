package blob

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/apperr"
)

// LocalStore writes images into a directory that the API serves statically.
type LocalStore struct {
	dir    string
	prefix string
}

func NewLocal(dir, prefix string) *LocalStore {
	return &LocalStore{dir: dir, prefix: prefix}
}

func (s *LocalStore) EnsureContainer(context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return apperr.Upload(err, "create images dir")
	}
	return nil
}

func (s *LocalStore) Upload(ctx context.Context, name string, data []byte, _ string) error {
	if err := validName(name); err != nil {
		return apperr.Upload(err, "upload blob")
	}
	if err := ctx.Err(); err != nil {
		return apperr.Upload(err, "upload blob "+name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return apperr.Upload(err, "create images dir")
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return apperr.Upload(err, "upload blob "+name)
	}
	return nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := validName(name); err != nil {
		return apperr.Upload(err, "delete blob")
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.Upload(err, "delete blob "+name)
	}
	return nil
}

func (s *LocalStore) URL(_ context.Context, name string) (string, error) {
	if err := validName(name); err != nil {
		return "", apperr.Upload(err, "blob url")
	}
	return s.prefix + url.PathEscape(name), nil
}

// Handler serves the images directory under the store's URL prefix.
func (s *LocalStore) Handler() http.Handler {
	return http.StripPrefix(s.prefix, http.FileServer(http.Dir(s.dir)))
}

func (s *LocalStore) Prefix() string { return s.prefix }
