package repository

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/microservices/menu/domain/dao"
)

type MenuRepositoryInterface interface {
	ListAvailable(ctx context.Context) ([]dao.MenuItem, error)
	ListAll(ctx context.Context) ([]dao.MenuItem, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]dao.MenuItem, error)
	Create(ctx context.Context, w dao.MenuItemWrite) (int64, error)
	// Update returns the image reference stored before the update.
	Update(ctx context.Context, id int64, w dao.MenuItemWrite) (string, error)
	// Delete returns the image reference of the removed row.
	Delete(ctx context.Context, id int64) (string, error)
	ToggleStock(ctx context.Context, id int64) (bool, error)
}

type MenuRepository struct {
	gw *database.Gateway
}

func NewMenuRepository(gw *database.Gateway) MenuRepositoryInterface {
	return &MenuRepository{gw: gw}
}

const selectItems = `
	SELECT item_id, name, category, price, COALESCE(image, ''), in_stock
	FROM menu`

func (r *MenuRepository) ListAvailable(ctx context.Context) ([]dao.MenuItem, error) {
	return r.list(ctx, selectItems+` WHERE in_stock = TRUE ORDER BY category, name`)
}

func (r *MenuRepository) ListAll(ctx context.Context) ([]dao.MenuItem, error) {
	return r.list(ctx, selectItems+` ORDER BY item_id`)
}

func (r *MenuRepository) list(ctx context.Context, sql string, args ...any) ([]dao.MenuItem, error) {
	var items []dao.MenuItem
	err := r.gw.Read(ctx, func(ctx context.Context, q database.Querier) error {
		rows, err := q.Query(ctx, sql, args...)
		if err != nil {
			return errors.Wrap(err, "query menu")
		}
		defer rows.Close()
		for rows.Next() {
			var it dao.MenuItem
			if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Price, &it.Image, &it.InStock); err != nil {
				return errors.Wrap(err, "scan menu item")
			}
			items = append(items, it)
		}
		return rows.Err()
	})
	if items == nil {
		items = []dao.MenuItem{}
	}
	return items, err
}

func (r *MenuRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]dao.MenuItem, error) {
	items, err := r.list(ctx, selectItems+` WHERE item_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]dao.MenuItem, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (r *MenuRepository) Create(ctx context.Context, w dao.MenuItemWrite) (int64, error) {
	inStock := true
	if w.InStock != nil {
		inStock = *w.InStock
	}
	var id int64
	err := r.gw.Read(ctx, func(ctx context.Context, q database.Querier) error {
		return q.QueryRow(ctx, `
			INSERT INTO menu (name, category, price, image, in_stock)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING item_id`,
			w.Name, w.Category, w.Price, w.Image, inStock,
		).Scan(&id)
	})
	if err != nil {
		return 0, errors.Wrap(err, "insert menu item")
	}
	return id, nil
}

func (r *MenuRepository) Update(ctx context.Context, id int64, w dao.MenuItemWrite) (string, error) {
	var old string
	err := r.gw.WithTx(ctx, func(ctx context.Context, q database.Querier) error {
		err := q.QueryRow(ctx, `SELECT COALESCE(image, '') FROM menu WHERE item_id = $1 FOR UPDATE`, id).Scan(&old)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("menu item %d not found", id)
		}
		if err != nil {
			return errors.Wrap(err, "lock menu item")
		}
		_, err = q.Exec(ctx, `
			UPDATE menu
			SET name = $2, category = $3, price = $4,
			    image = COALESCE($5, image), in_stock = COALESCE($6, in_stock)
			WHERE item_id = $1`,
			id, w.Name, w.Category, w.Price, w.Image, w.InStock)
		return errors.Wrap(err, "update menu item")
	})
	return old, err
}

func (r *MenuRepository) Delete(ctx context.Context, id int64) (string, error) {
	var image string
	err := r.gw.Read(ctx, func(ctx context.Context, q database.Querier) error {
		err := q.QueryRow(ctx, `DELETE FROM menu WHERE item_id = $1 RETURNING COALESCE(image, '')`, id).Scan(&image)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("menu item %d not found", id)
		}
		return errors.Wrap(err, "delete menu item")
	})
	return image, err
}

func (r *MenuRepository) ToggleStock(ctx context.Context, id int64) (bool, error) {
	var inStock bool
	err := r.gw.Read(ctx, func(ctx context.Context, q database.Querier) error {
		err := q.QueryRow(ctx, `UPDATE menu SET in_stock = NOT in_stock WHERE item_id = $1 RETURNING in_stock`, id).Scan(&inStock)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("menu item %d not found", id)
		}
		return errors.Wrap(err, "toggle stock")
	})
	return inStock, err
}
