package dto

import (
	"restaurant-ordering/internal/common/money"
	"restaurant-ordering/internal/microservices/menu/domain/dao"
)

var Categories = []string{"Starters", "Main Course", "Desserts", "Drinks", "Beverages"}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type MenuItemResponse struct {
	ItemID   int64       `json:"item_id"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Price    money.Money `json:"price"`
	Image    *string     `json:"image"`
	InStock  bool        `json:"in_stock"`
}

// ItemInput is the admin create/update payload.
type ItemInput struct {
	Name     string       `json:"name"`
	Category string       `json:"category"`
	Price    *money.Money `json:"price"`
	InStock  *bool        `json:"in_stock"`
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type CreateItemResponse struct {
	ItemID  int64  `json:"item_id"`
	Message string `json:"message"`
}

type StockResponse struct {
	ItemID  int64  `json:"item_id"`
	InStock bool   `json:"in_stock"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ToResponse converts a row; image is the already-resolved URL or nil.
func ToResponse(it dao.MenuItem, image *string) MenuItemResponse {
	return MenuItemResponse{
		ItemID:   it.ID,
		Name:     it.Name,
		Category: it.Category,
		Price:    it.Price,
		Image:    image,
		InStock:  it.InStock,
	}
}
