package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/commerce-gateway/internal/domain"
)

// AdminRepository handles persistence for back-office admins.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository instantiates the repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminColumns = `id, name, email, password_hash, is_active, created_at, updated_at`

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	if err := usable(r.pool); err != nil {
		return err
	}
	const query = `
        INSERT INTO admins (name, email, password_hash, is_active)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		admin.Name,
		admin.Email,
		admin.PasswordHash,
		admin.Active,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
	return createErr(err)
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	if err := usable(r.pool); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id=$1`
	return scanAdmin(r.pool.QueryRow(ctx, query, id))
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	if err := usable(r.pool); err != nil {
		return nil, err
	}
	query := `SELECT ` + adminColumns + ` FROM admins WHERE lower(email)=lower($1)`
	return scanAdmin(r.pool.QueryRow(ctx, query, email))
}

func (r *adminRepository) SetActive(ctx context.Context, id string, active bool) error {
	if err := usable(r.pool); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	const query = `UPDATE admins SET is_active=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var admin domain.Admin
	if err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Active,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}
