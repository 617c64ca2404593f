package repository

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/connections/database"
	"restaurant-ordering/internal/microservices/admin/domain/dao"
)

type AdminRepositoryInterface interface {
	GetByUsername(ctx context.Context, username string) (dao.AdminUser, error)
	Create(ctx context.Context, username, passwordHash string) (int64, error)
}

type AdminRepository struct {
	gw *database.Gateway
}

func NewAdminRepository(gw *database.Gateway) AdminRepositoryInterface {
	return &AdminRepository{gw: gw}
}

func (ar *AdminRepository) GetByUsername(ctx context.Context, username string) (dao.AdminUser, error) {
	var u dao.AdminUser
	err := ar.gw.Read(ctx, func(ctx context.Context, q database.Querier) error {
		err := q.QueryRow(ctx, `
			SELECT admin_id, username, password_hash, created_at
			FROM admin_users
			WHERE username = $1`,
			username,
		).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("admin user not found")
		}
		return errors.Wrap(err, "select admin user")
	})
	return u, err
}

func (ar *AdminRepository) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := ar.gw.Read(ctx, func(ctx context.Context, q database.Querier) error {
		err := q.QueryRow(ctx,
			`INSERT INTO admin_users (username, password_hash) VALUES ($1, $2) RETURNING admin_id`,
			username, passwordHash,
		).Scan(&id)
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("admin user %q already exists", username)
		}
		return errors.Wrap(err, "insert admin user")
	})
	return id, err
}
