package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/microservices/menu/domain/dao"
	"restaurant-ordering/internal/microservices/menu/domain/dto"
)

type stubService struct {
	gotInput dto.ItemInput
	gotImage *dto.ImageUpload
	gotID    int64
	err      error
}

func (s *stubService) ListAvailable(context.Context) ([]dto.MenuItemResponse, error) {
	return []dto.MenuItemResponse{{ItemID: 1, Name: "Burger", Category: "Main Course", InStock: true}}, s.err
}
func (s *stubService) ListAll(context.Context) ([]dto.MenuItemResponse, error) { return nil, s.err }
func (s *stubService) Get(_ context.Context, id int64) (dto.MenuItemResponse, error) {
	s.gotID = id
	return dto.MenuItemResponse{ItemID: id}, s.err
}
func (s *stubService) Resolve(context.Context, []int64) (map[int64]dao.MenuItem, error) {
	return nil, nil
}
func (s *stubService) Create(_ context.Context, in dto.ItemInput, img *dto.ImageUpload) (int64, error) {
	s.gotInput, s.gotImage = in, img
	return 42, s.err
}
func (s *stubService) Update(_ context.Context, id int64, in dto.ItemInput, img *dto.ImageUpload) error {
	s.gotID, s.gotInput, s.gotImage = id, in, img
	return s.err
}
func (s *stubService) Delete(_ context.Context, id int64) error {
	s.gotID = id
	return s.err
}
func (s *stubService) ToggleStock(_ context.Context, id int64) (bool, error) {
	s.gotID = id
	return false, s.err
}

func passThrough(next http.Handler) http.Handler { return next }

func newMux(svc *stubService) *http.ServeMux {
	mux := http.NewServeMux()
	Register(mux, &Handler{MenuHandler: NewMenuHandler(svc, 1<<20, logger.Nop())}, passThrough)
	return mux
}

func TestCreate_Multipart(t *testing.T) {
	svc := &stubService{}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Soup"))
	require.NoError(t, mw.WriteField("category", "Starters"))
	require.NoError(t, mw.WriteField("price", "4.50"))
	require.NoError(t, mw.WriteField("in_stock", "0"))
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="soup.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\nxxxx"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/admin/menu/add", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newMux(svc).ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Soup", svc.gotInput.Name)
	require.Equal(t, "4.50", svc.gotInput.Price.String())
	require.False(t, *svc.gotInput.InStock)
	require.NotNil(t, svc.gotImage)
	require.Equal(t, "soup.png", svc.gotImage.Filename)
	require.Equal(t, "image/png", svc.gotImage.ContentType)

	var resp dto.CreateItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.EqualValues(t, 42, resp.ItemID)
}

func TestCreate_JSONWithoutImage(t *testing.T) {
	svc := &stubService{}
	r := httptest.NewRequest(http.MethodPost, "/admin/menu/add",
		strings.NewReader(`{"name":"Tea","category":"Drinks","price":2}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newMux(svc).ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Tea", svc.gotInput.Name)
	require.Nil(t, svc.gotImage)
}

func TestCreate_BadPriceInForm(t *testing.T) {
	svc := &stubService{}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Soup"))
	require.NoError(t, mw.WriteField("price", "four"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/admin/menu/add", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newMux(svc).ServeHTTP(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoutesMapErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		err    error
		want   int
	}{
		{"toggle ok", http.MethodPut, "/admin/menu/toggle-stock/3", nil, http.StatusOK},
		{"toggle missing", http.MethodPut, "/admin/menu/toggle-stock/3", apperr.NotFound("menu item 3 not found"), http.StatusNotFound},
		{"delete bad id", http.MethodDelete, "/admin/menu/delete/abc", nil, http.StatusBadRequest},
		{"delete in use", http.MethodDelete, "/admin/menu/delete/3", apperr.Conflict("in use"), http.StatusConflict},
		{"public menu", http.MethodGet, "/menu", nil, http.StatusOK},
		{"wrong method", http.MethodPost, "/menu", nil, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.err}
			w := httptest.NewRecorder()
			newMux(svc).ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, tt.want, w.Code)
		})
	}
}
