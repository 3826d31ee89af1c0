package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// checkID rejects ids that cannot match a UUID primary key, so lookups for
// garbage ids report "no rows" instead of a Postgres syntax error.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return pgx.ErrNoRows
	}
	return nil
}
