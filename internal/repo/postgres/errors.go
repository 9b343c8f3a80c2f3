package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Store-level sentinels. Handlers switch on these with errors.Is instead of
// poking at SQLSTATE strings, the translation happens once here.
var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCustomerRef = errors.New("invalid customer reference")
)

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	return false
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return true
	}

	return false
}
