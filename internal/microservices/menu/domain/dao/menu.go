package dao

import "restaurant-ordering/internal/common/money"

// MenuItem is a row of the menu table. Image holds the stored reference:
// a bare blob name, a legacy full URL, or "" when there is no image.
type MenuItem struct {
	ID       int64
	Name     string
	Category string
	Price    money.Money
	Image    string
	InStock  bool
}

// MenuItemWrite carries the columns an insert or update sets. A nil Image
// or InStock leaves the stored value unchanged on update.
type MenuItemWrite struct {
	Name     string
	Category string
	Price    money.Money
	Image    *string
	InStock  *bool
}
