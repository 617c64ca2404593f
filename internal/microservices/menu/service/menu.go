package service

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/metrics"
	"restaurant-ordering/internal/connections/blob"
	"restaurant-ordering/internal/microservices/menu/domain/dao"
	"restaurant-ordering/internal/microservices/menu/domain/dto"
	"restaurant-ordering/internal/microservices/menu/repository"
)

const maxNameLen = 100

type MenuServiceInterface interface {
	ListAvailable(ctx context.Context) ([]dto.MenuItemResponse, error)
	ListAll(ctx context.Context) ([]dto.MenuItemResponse, error)
	Get(ctx context.Context, id int64) (dto.MenuItemResponse, error)
	// Resolve looks up items by id for order placement; unknown ids are
	// absent from the result.
	Resolve(ctx context.Context, ids []int64) (map[int64]dao.MenuItem, error)
	Create(ctx context.Context, in dto.ItemInput, img *dto.ImageUpload) (int64, error)
	Update(ctx context.Context, id int64, in dto.ItemInput, img *dto.ImageUpload) error
	Delete(ctx context.Context, id int64) error
	ToggleStock(ctx context.Context, id int64) (bool, error)
}

type MenuService struct {
	repo          repository.MenuRepositoryInterface
	store         blob.Store
	maxImageBytes int64
	lg            *logger.Logger
	m             *metrics.Metrics
	now           func() time.Time
}

func NewMenuService(repo repository.MenuRepositoryInterface, store blob.Store, maxImageBytes int64,
	lg *logger.Logger, m *metrics.Metrics) MenuServiceInterface {
	if maxImageBytes <= 0 {
		maxImageBytes = 5 << 20
	}
	return &MenuService{repo: repo, store: store, maxImageBytes: maxImageBytes, lg: lg, m: m, now: time.Now}
}

func (s *MenuService) ListAvailable(ctx context.Context) ([]dto.MenuItemResponse, error) {
	items, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, items), nil
}

func (s *MenuService) ListAll(ctx context.Context) ([]dto.MenuItemResponse, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, items), nil
}

func (s *MenuService) Get(ctx context.Context, id int64) (dto.MenuItemResponse, error) {
	items, err := s.repo.GetByIDs(ctx, []int64{id})
	if err != nil {
		return dto.MenuItemResponse{}, err
	}
	it, ok := items[id]
	if !ok {
		return dto.MenuItemResponse{}, apperr.NotFound("menu item %d not found", id)
	}
	return dto.ToResponse(it, s.imageURL(ctx, it.Image)), nil
}

func (s *MenuService) Resolve(ctx context.Context, ids []int64) (map[int64]dao.MenuItem, error) {
	if len(ids) == 0 {
		return map[int64]dao.MenuItem{}, nil
	}
	return s.repo.GetByIDs(ctx, ids)
}

func (s *MenuService) Create(ctx context.Context, in dto.ItemInput, img *dto.ImageUpload) (int64, error) {
	w, err := validateInput(in)
	if err != nil {
		return 0, err
	}
	if err := s.validateImage(img); err != nil {
		return 0, err
	}

	var uploaded string
	if img != nil {
		if uploaded, err = s.upload(ctx, img); err != nil {
			return 0, err
		}
		w.Image = &uploaded
	}

	id, err := s.repo.Create(ctx, w)
	if err != nil {
		if uploaded != "" {
			s.removeBlob(ctx, uploaded, "create_rollback")
		}
		return 0, err
	}
	s.lg.Info("menu_item_created", map[string]any{"item_id": id, "name": w.Name, "image": uploaded})
	return id, nil
}

func (s *MenuService) Update(ctx context.Context, id int64, in dto.ItemInput, img *dto.ImageUpload) error {
	w, err := validateInput(in)
	if err != nil {
		return err
	}
	if err := s.validateImage(img); err != nil {
		return err
	}

	var uploaded string
	if img != nil {
		if uploaded, err = s.upload(ctx, img); err != nil {
			return err
		}
		w.Image = &uploaded
	}

	old, err := s.repo.Update(ctx, id, w)
	if err != nil {
		if uploaded != "" {
			s.removeBlob(ctx, uploaded, "update_rollback")
		}
		return err
	}
	// The old image goes only after the new reference is committed.
	if uploaded != "" && old != "" {
		s.removeBlob(ctx, blob.RefName(old), "update_replace")
	}
	s.lg.Info("menu_item_updated", map[string]any{"item_id": id, "image_replaced": uploaded != ""})
	return nil
}

// Delete removes the row first; a failing blob delete only leaves an
// orphaned blob and is logged.
func (s *MenuService) Delete(ctx context.Context, id int64) error {
	image, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if image != "" {
		s.removeBlob(ctx, blob.RefName(image), "delete")
	}
	s.lg.Info("menu_item_deleted", map[string]any{"item_id": id})
	return nil
}

func (s *MenuService) ToggleStock(ctx context.Context, id int64) (bool, error) {
	inStock, err := s.repo.ToggleStock(ctx, id)
	if err != nil {
		return false, err
	}
	s.lg.Info("menu_stock_toggled", map[string]any{"item_id": id, "in_stock": inStock})
	return inStock, nil
}

func validateInput(in dto.ItemInput) (dao.MenuItemWrite, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return dao.MenuItemWrite{}, apperr.Validation("name is required")
	case utf8.RuneCountInString(name) > maxNameLen:
		return dao.MenuItemWrite{}, apperr.Validation("name must be at most %d characters", maxNameLen)
	case !dto.ValidCategory(in.Category):
		return dao.MenuItemWrite{}, apperr.Validation("category must be one of %s", strings.Join(dto.Categories, ", "))
	case in.Price == nil:
		return dao.MenuItemWrite{}, apperr.Validation("price is required")
	case in.Price.IsNegative():
		return dao.MenuItemWrite{}, apperr.Validation("price must be >= 0")
	}
	return dao.MenuItemWrite{
		Name:     name,
		Category: in.Category,
		Price:    in.Price.Round(),
		InStock:  in.InStock,
	}, nil
}

func (s *MenuService) validateImage(img *dto.ImageUpload) error {
	if img == nil {
		return nil
	}
	if len(img.Data) == 0 {
		return apperr.Validation("image is empty")
	}
	if int64(len(img.Data)) > s.maxImageBytes {
		return apperr.Validation("image exceeds %d bytes", s.maxImageBytes)
	}
	if img.ContentType == "" || img.ContentType == "application/octet-stream" {
		img.ContentType = http.DetectContentType(img.Data)
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return apperr.Validation("image must be an image/* file, got %s", img.ContentType)
	}
	return nil
}

func (s *MenuService) upload(ctx context.Context, img *dto.ImageUpload) (string, error) {
	name := blob.NewName(img.Filename, s.now())
	err := s.store.Upload(ctx, name, img.Data, img.ContentType)
	s.countBlob("upload", err)
	if err != nil {
		if !apperr.Classified(err) {
			err = apperr.Upload(err, "upload image")
		}
		return "", errors.Wrap(err, "store image")
	}
	return name, nil
}

func (s *MenuService) removeBlob(ctx context.Context, name, reason string) {
	err := s.store.Delete(ctx, name)
	s.countBlob("delete", err)
	if err != nil {
		s.lg.Error("blob_delete_failed", err, map[string]any{"blob": name, "reason": reason})
	}
}

func (s *MenuService) imageURL(ctx context.Context, ref string) *string {
	name := blob.RefName(ref)
	if name == "" {
		return nil
	}
	u, err := s.store.URL(ctx, name)
	if err != nil {
		s.lg.Warn("image_url_failed", map[string]any{"blob": name, "error": err.Error()})
		return nil
	}
	return &u
}

func (s *MenuService) toResponses(ctx context.Context, items []dao.MenuItem) []dto.MenuItemResponse {
	out := make([]dto.MenuItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToResponse(it, s.imageURL(ctx, it.Image)))
	}
	return out
}

func (s *MenuService) countBlob(op string, err error) {
	if s.m != nil {
		s.m.BlobOps.WithLabelValues(op, metrics.Result(err)).Inc()
	}
}
