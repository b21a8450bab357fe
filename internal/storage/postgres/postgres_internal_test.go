package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKeyError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, isDuplicateKeyError(dup))
	assert.True(t, isDuplicateKeyError(fmt.Errorf("inserting: %w", dup)))
	assert.False(t, isDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isDuplicateKeyError(errors.New("plain")))
	assert.False(t, isDuplicateKeyError(nil))
}

func TestHasSQLState_UndefinedTable(t *testing.T) {
	err := fmt.Errorf("reading: %w", &pgconn.PgError{Code: sqlStateUndefinedTable})
	assert.True(t, hasSQLState(err, sqlStateUndefinedTable))
	assert.False(t, hasSQLState(err, sqlStateUniqueViolation))
}
