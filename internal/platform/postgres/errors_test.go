package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/flashforge/internal/store"
	"github.com/stretchr/testify/assert"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "users",
		ColumnName:     "email",
		ConstraintName: "users_email_key",
	}
}

func TestMapError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: store.ErrNotFound},
		{name: "unique violation", err: pgError(uniqueViolationCode), want: store.ErrDuplicate},
		{name: "foreign key violation", err: pgError(foreignKeyViolationCode), want: store.ErrInvalidEntity},
		{name: "check violation", err: pgError(checkViolationCode), want: store.ErrInvalidEntity},
		{name: "not null violation", err: pgError(notNullViolationCode), want: store.ErrInvalidEntity},
		{name: "wrapped unique violation", err: fmt.Errorf("exec: %w", pgError(uniqueViolationCode)), want: store.ErrDuplicate},
		{name: "unmapped pg code", err: pgError("42P01"), want: nil},
		{name: "plain error", err: plain, want: plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if tt.want == nil {
				assert.Same(t, tt.err, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	assert.NoError(t, MapError(nil))
}

func TestViolationPredicates(t *testing.T) {
	assert.True(t, IsUniqueViolation(pgError(uniqueViolationCode)))
	assert.False(t, IsUniqueViolation(pgError(foreignKeyViolationCode)))
	assert.True(t, IsForeignKeyViolation(pgError(foreignKeyViolationCode)))
	assert.False(t, IsForeignKeyViolation(errors.New("nope")))
}
