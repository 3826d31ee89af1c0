package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestCheckID(t *testing.T) {
	assert.NoError(t, checkID(uuid.NewString()))
	assert.ErrorIs(t, checkID("v1"), pgx.ErrNoRows)
	assert.ErrorIs(t, checkID(""), pgx.ErrNoRows)
}
