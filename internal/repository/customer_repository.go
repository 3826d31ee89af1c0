package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/commerce-gateway/internal/domain"
)

// CustomerRepository defines persistence access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerColumns = `id, name, email, password_hash, is_active, created_at, updated_at`

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if err := usable(r.pool); err != nil {
		return err
	}
	const query = `
        INSERT INTO customers (name, email, password_hash, is_active)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		customer.Name,
		customer.Email,
		customer.PasswordHash,
		customer.Active,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	return createErr(err)
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if err := usable(r.pool); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id=$1`
	return scanCustomer(r.pool.QueryRow(ctx, query, id))
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	if err := usable(r.pool); err != nil {
		return nil, err
	}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE lower(email)=lower($1)`
	return scanCustomer(r.pool.QueryRow(ctx, query, email))
}

func (r *customerRepository) SetActive(ctx context.Context, id string, active bool) error {
	if err := usable(r.pool); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	const query = `UPDATE customers SET is_active=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var customer domain.Customer
	if err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.PasswordHash,
		&customer.Active,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}
