// Package blob stores menu item images. Rows keep only the bare blob name;
// readers resolve it to a URL on every read.
package blob

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"restaurant-ordering/internal/config"
)

type Store interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) error
	Delete(ctx context.Context, name string) error
	// URL returns a consumable URL for name: a time-limited signed URL for
	// remote storage or a static path for local storage.
	URL(ctx context.Context, name string) (string, error)
	EnsureContainer(ctx context.Context) error
}

// New builds the store selected by cfg.Provider.
func New(cfg config.BlobConfig) (Store, error) {
	switch cfg.Provider {
	case "azure":
		return NewAzure(cfg)
	case "local":
		return NewLocal(cfg.ImagesDir, "/images/"), nil
	default:
		return nil, errors.Newf("unknown blob provider %q", cfg.Provider)
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewName builds "<unix millis>-<uuid>-<sanitized original name>".
func NewName(original string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	base = unsafeChars.ReplaceAllString(strings.TrimSpace(base), "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		base = "image"
	}
	if len(base) > 100 {
		base = base[len(base)-100:]
	}
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.NewString(), base)
}

// RefName reduces a stored image reference to a bare blob name. Older rows
// hold full (possibly signed) URLs; only the last path segment is kept.
func RefName(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	return ref
}

func validName(name string) error {
	if name == "" || name != path.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.Newf("invalid blob name %q", name)
	}
	return nil
}
