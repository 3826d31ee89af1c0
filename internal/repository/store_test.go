package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/commerce-gateway/internal/domain"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

func TestRepositoriesWithoutPool(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	_, err := NewCustomerRepository(nil).GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, pgx.ErrNoRows)

	_, err = NewVendorRepository(nil).GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = NewAdminRepository(nil).GetByEmail(ctx, "root@shop.test")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	err = NewCustomerRepository(nil).Create(ctx, &domain.Customer{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = NewVendorRepository(nil).List(ctx, VendorFilter{})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestCreateErrMapsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_lower_idx"})
	assert.True(t, apperrors.HasCode(createErr(dup), apperrors.CodeConflict))

	other := &pgconn.PgError{Code: "23502"}
	assert.Same(t, error(other), createErr(other))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, createErr(plain))
	assert.NoError(t, createErr(nil))
}
