package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/commerce-gateway/internal/domain"
)

// VendorRepository handles persistence for vendor accounts.
type VendorRepository interface {
	Create(ctx context.Context, vendor *domain.Vendor) error
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Vendor, error)
	UpdateStatus(ctx context.Context, id string, status domain.VendorStatus, reason *string) error
	List(ctx context.Context, filter VendorFilter) ([]domain.Vendor, error)
}

// VendorFilter defines query params for vendor listing.
type VendorFilter struct {
	Status *domain.VendorStatus
	Limit  int
	Offset int
}

type vendorRepository struct {
	pool *pgxpool.Pool
}

// NewVendorRepository instantiates the repository.
func NewVendorRepository(pool *pgxpool.Pool) VendorRepository {
	return &vendorRepository{pool: pool}
}

const vendorColumns = `id, store_name, email, password_hash, status, status_reason, created_at, updated_at`

func (r *vendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	if err := usable(r.pool); err != nil {
		return err
	}
	const query = `
        INSERT INTO vendors (store_name, email, password_hash, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		vendor.StoreName,
		vendor.Email,
		vendor.PasswordHash,
		vendor.Status,
	).Scan(&vendor.ID, &vendor.CreatedAt, &vendor.UpdatedAt)
	return createErr(err)
}

func (r *vendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	if err := usable(r.pool); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id=$1`
	return scanVendor(r.pool.QueryRow(ctx, query, id))
}

func (r *vendorRepository) GetByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	if err := usable(r.pool); err != nil {
		return nil, err
	}
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE lower(email)=lower($1)`
	return scanVendor(r.pool.QueryRow(ctx, query, email))
}

func (r *vendorRepository) UpdateStatus(ctx context.Context, id string, status domain.VendorStatus, reason *string) error {
	if err := usable(r.pool); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	const query = `
        UPDATE vendors SET status=$1, status_reason=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, status, reason, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *vendorRepository) List(ctx context.Context, filter VendorFilter) ([]domain.Vendor, error) {
	if err := usable(r.pool); err != nil {
		return nil, err
	}
	query := `SELECT ` + vendorColumns + ` FROM vendors`
	args := []any{}
	clauses := []string{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY created_at ASC"
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *vendor)
	}
	return result, rows.Err()
}

func scanVendor(row pgx.Row) (*domain.Vendor, error) {
	var vendor domain.Vendor
	if err := row.Scan(
		&vendor.ID,
		&vendor.StoreName,
		&vendor.Email,
		&vendor.PasswordHash,
		&vendor.Status,
		&vendor.StatusReason,
		&vendor.CreatedAt,
		&vendor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &vendor, nil
}
