package db

import (
	"context"
	"strings"
	"time"

	"github.com/geocoder89/dumbcrm/internal/config"
	"github.com/geocoder89/dumbcrm/internal/domain/user"
	"github.com/geocoder89/dumbcrm/internal/security"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdminUser bootstraps the very first account. It only fires when the
// users table is completely empty, so an operator can never lock themselves
// out of a fresh deployment.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) (*user.User, error) {
	var count int

	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)

	if err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, nil
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(cfg.AdminEmail),
		PasswordHash: hash,
		Name:         cfg.AdminName,
		Role:         user.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &u, nil
}
