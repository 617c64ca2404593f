package service

import (
	"context"
	"crypto/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"restaurant-ordering/internal/common/apperr"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/microservices/admin/domain/dto"
	"restaurant-ordering/internal/microservices/admin/repository"
)

const (
	issuer         = "restaurant-admin"
	maxUsername    = 50
	minPassword    = 8
	maxPasswordLen = 72 // bcrypt input limit
)

// ErrInvalidToken is returned for a missing, malformed or expired token.
var ErrInvalidToken = errors.Mark(errors.New("missing or invalid admin token"), apperr.ErrAuth)

type AdminServiceInterface interface {
	// Login checks credentials and issues a bearer token. Unknown users and
	// wrong passwords fail identically.
	Login(ctx context.Context, username, password string) (dto.LoginResponse, error)
	CreateAdmin(ctx context.Context, username, password string) (int64, error)
	// VerifyToken returns the admin username the token was issued to.
	VerifyToken(token string) (string, error)
}

type AdminService struct {
	repo      repository.AdminRepositoryInterface
	secret    []byte
	ttl       time.Duration
	cost      int
	dummyHash []byte
	lg        *logger.Logger
	now       func() time.Time
}

func NewAdminService(repo repository.AdminRepositoryInterface, cfg config.AuthConfig, lg *logger.Logger) (*AdminService, error) {
	return newAdminService(repo, cfg, bcrypt.DefaultCost, lg)
}

func newAdminService(repo repository.AdminRepositoryInterface, cfg config.AuthConfig, cost int, lg *logger.Logger) (*AdminService, error) {
	secret := []byte(cfg.TokenSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, errors.Wrap(err, "generate token secret")
		}
		lg.Warn("token_secret_generated", map[string]any{
			"detail": "no auth.token_secret configured; tokens will not survive a restart",
		})
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	// Unknown usernames are compared against this so they cost as much as a real check.
	dummy, err := bcrypt.GenerateFromPassword([]byte("no-such-admin-user"), cost)
	if err != nil {
		return nil, errors.Wrap(err, "prepare dummy hash")
	}
	return &AdminService{
		repo: repo, secret: secret, ttl: ttl, cost: cost,
		dummyHash: dummy, lg: lg, now: time.Now,
	}, nil
}

func (s *AdminService) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dto.LoginResponse{}, apperr.Validation("username and password are required")
	}

	user, err := s.repo.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		s.lg.Warn("admin_login_failed", map[string]any{"username": username})
		return dto.LoginResponse{}, apperr.Auth()
	case err != nil:
		return dto.LoginResponse{}, errors.Wrap(err, "load admin user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.lg.Warn("admin_login_failed", map[string]any{"username": username})
		return dto.LoginResponse{}, apperr.Auth()
	}

	token, expires, err := s.issue(user.Username)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	s.lg.Info("admin_login", map[string]any{"username": user.Username})
	return dto.LoginResponse{
		Message:   "Login successful",
		Token:     token,
		ExpiresAt: expires,
		Username:  user.Username,
	}, nil
}

func (s *AdminService) CreateAdmin(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return 0, apperr.Validation("username is required")
	case utf8.RuneCountInString(username) > maxUsername:
		return 0, apperr.Validation("username must be at most %d characters", maxUsername)
	case len(password) < minPassword:
		return 0, apperr.Validation("password must be at least %d characters", minPassword)
	case len(password) > maxPasswordLen:
		return 0, apperr.Validation("password must be at most %d bytes", maxPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return 0, errors.Wrap(err, "hash password")
	}
	id, err := s.repo.Create(ctx, username, string(hash))
	if err != nil {
		return 0, err
	}
	s.lg.Info("admin_created", map[string]any{"username": username, "admin_id": id})
	return id, nil
}

func (s *AdminService) issue(username string) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign admin token")
	}
	return signed, expires, nil
}

func (s *AdminService) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.Newf("unexpected signing method %s", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Issuer != issuer || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
