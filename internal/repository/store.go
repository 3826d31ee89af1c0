package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

// ErrStoreUnavailable is returned by repositories built without a pool.
var ErrStoreUnavailable = errors.New("identity store unavailable")

const uniqueViolation = "23505"

func usable(pool *pgxpool.Pool) error {
	if pool == nil {
		return ErrStoreUnavailable
	}
	return nil
}

// createErr reports a duplicate email as a conflict. Registration checks for
// an existing account first, but a concurrent insert can still reach the
// unique index.
func createErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.NewConflict("email already registered", nil)
	}
	return err
}
