package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/common/httpx"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/common/money"
	"restaurant-ordering/internal/microservices/menu/domain/dto"
	"restaurant-ordering/internal/microservices/menu/service"
)

// formOverhead is the room left for non-file multipart fields.
const formOverhead = 1 << 20

type MenuHandler struct {
	service       service.MenuServiceInterface
	maxImageBytes int64
	lg            *logger.Logger
}

func NewMenuHandler(s service.MenuServiceInterface, maxImageBytes int64, lg *logger.Logger) *MenuHandler {
	return &MenuHandler{service: s, maxImageBytes: maxImageBytes, lg: lg}
}

func (h *MenuHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAvailable(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAll(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, img, err := h.readItem(w, r)
	if err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	id, err := h.service.Create(r.Context(), in, img)
	if err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	httpx.Audit(h.lg, r, "admin_menu_item_created", map[string]any{"item_id": id})
	httpx.WriteJSON(w, http.StatusCreated, dto.CreateItemResponse{ItemID: id, Message: "Menu item added successfully"})
}

func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	in, img, err := h.readItem(w, r)
	if err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	if err := h.service.Update(r.Context(), id, in, img); err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	httpx.Audit(h.lg, r, "admin_menu_item_updated", map[string]any{"item_id": id})
	httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Menu item updated successfully"})
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	httpx.Audit(h.lg, r, "admin_menu_item_deleted", map[string]any{"item_id": id})
	httpx.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Item deleted successfully"})
}

func (h *MenuHandler) ToggleStock(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	inStock, err := h.service.ToggleStock(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.lg, err)
		return
	}
	httpx.Audit(h.lg, r, "admin_menu_stock_toggled", map[string]any{"item_id": id, "in_stock": inStock})
	httpx.WriteJSON(w, http.StatusOK, dto.StockResponse{ItemID: id, InStock: inStock, Message: "Stock status updated"})
}

// readItem accepts multipart/form-data with an optional "image" file, or a
// JSON body without an image.
func (h *MenuHandler) readItem(w http.ResponseWriter, r *http.Request) (dto.ItemInput, *dto.ImageUpload, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var in dto.ItemInput
		if err := httpx.DecodeJSON(w, r, &in); err != nil {
			return dto.ItemInput{}, nil, err
		}
		return in, nil, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+formOverhead)
	if err := r.ParseMultipartForm(h.maxImageBytes + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return dto.ItemInput{}, nil, apperr.Validation("image exceeds %d bytes", h.maxImageBytes)
		}
		return dto.ItemInput{}, nil, apperr.Validation("invalid multipart form: %s", err.Error())
	}

	in := dto.ItemInput{Name: r.FormValue("name"), Category: r.FormValue("category")}
	if raw := r.FormValue("price"); raw != "" {
		p, err := money.Parse(raw)
		if err != nil {
			return dto.ItemInput{}, nil, apperr.Validation("price must be a number")
		}
		in.Price = &p
	}
	if raw := r.FormValue("in_stock"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return dto.ItemInput{}, nil, apperr.Validation("in_stock must be a boolean")
		}
		in.InStock = &b
	}

	file, hdr, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return dto.ItemInput{}, nil, apperr.Validation("invalid image field: %s", err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
	if err != nil {
		return dto.ItemInput{}, nil, errors.Wrap(err, "read image")
	}
	return in, &dto.ImageUpload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
