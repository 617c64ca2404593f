package blob

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/config"
)

func TestNewName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	tests := []struct {
		original string
		suffix   string
	}{
		{"burger deluxe.png", "-burger-deluxe.png"},
		{"../../etc/passwd", "-passwd"},
		{`C:\pics\tea cup.jpg`, "-tea-cup.jpg"},
		{"", "-image"},
		{"???", "-image"},
	}
	shape := regexp.MustCompile(`^1700000000123-[0-9a-f-]{36}-`)

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			name := NewName(tt.original, now)
			require.Regexp(t, shape, name)
			require.True(t, strings.HasSuffix(name, tt.suffix), name)
			require.NoError(t, validName(name))
		})
	}
}

func TestRefName(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"1700-abc-burger.png", "1700-abc-burger.png"},
		{"https://acct.blob.core.windows.net/menu-images/1700-abc-burger.png?sv=2021&sig=x", "1700-abc-burger.png"},
		{"/images/tea%20cup.jpg", "tea cup.jpg"},
		{"  ", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, RefName(tt.ref), tt.ref)
	}
}

func TestLocalStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewLocal(filepath.Join(dir, "images"), "/images/")
	ctx := context.Background()
	require.NoError(t, s.EnsureContainer(ctx))

	require.NoError(t, s.Upload(ctx, "a.png", []byte("png"), "image/png"))
	u, err := s.URL(ctx, "a.png")
	require.NoError(t, err)
	require.Equal(t, "/images/a.png", u)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/images/a.png")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Delete(ctx, "a.png"))
	_, err = os.Stat(filepath.Join(dir, "images", "a.png"))
	require.True(t, os.IsNotExist(err))
	require.NoError(t, s.Delete(ctx, "a.png"), "deleting a missing blob is not an error")
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s := NewLocal(t.TempDir(), "/images/")
	err := s.Upload(context.Background(), "../x.png", []byte("x"), "image/png")
	require.True(t, errors.Is(err, apperr.ErrUpload))
}

func TestAzureStore_SignedURL(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	s, err := NewAzure(config.BlobConfig{
		Provider:   "azure",
		Account:    "acct",
		AccountKey: key,
		Container:  "menu-images",
		SignedTTL:  time.Hour,
		Timeout:    time.Second,
	})
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	raw, err := s.URL(context.Background(), "1700-abc-burger.png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "https", u.Scheme)
	require.Equal(t, "acct.blob.core.windows.net", u.Host)
	require.Equal(t, "/menu-images/1700-abc-burger.png", u.Path)

	q := u.Query()
	require.Equal(t, "r", q.Get("sp"))
	require.NotEmpty(t, q.Get("sig"))
	require.Equal(t, "2024-05-01T13:00:00Z", q.Get("se"))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(config.BlobConfig{Provider: "ftp"})
	require.Error(t, err)
}
