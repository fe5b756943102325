package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanzideck/hanzideck-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: nil,
		},
		{
			name:     "no rows maps to not found",
			err:      sql.ErrNoRows,
			expected: store.ErrNotFound,
		},
		{
			name:     "unique violation maps to duplicate",
			err:      &pgconn.PgError{Code: uniqueViolationCode},
			expected: store.ErrDuplicate,
		},
		{
			name:     "foreign key violation maps to invalid entity",
			err:      &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "fk_card"},
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "check violation maps to invalid entity",
			err:      &pgconn.PgError{Code: checkViolationCode, ConstraintName: "ck_quality"},
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "not null violation maps to invalid entity",
			err:      &pgconn.PgError{Code: notNullViolationCode, ColumnName: "user_id"},
			expected: store.ErrInvalidEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tc.err)
			if tc.expected == nil {
				assert.NoError(t, mapped)
				return
			}
			assert.ErrorIs(t, mapped, tc.expected)
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	original := fmt.Errorf("connection reset")
	assert.Equal(t, original, MapError(original))
}

func TestMapErrorWrapsUniqueViolationWhenNested(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "card_progress_card_id_mode_key"}
	wrapped := fmt.Errorf("exec insert: %w", pgErr)

	assert.ErrorIs(t, MapError(wrapped), store.ErrDuplicate)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: uniqueViolationCode})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("not a pg error")))
	assert.False(t, IsUniqueViolation(nil))
}

type fakeResult struct {
	rows    int64
	rowsErr error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.rowsErr }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "card progress"))
	})

	t.Run("zero rows returns not found with entity name", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, "card progress")
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "card progress")
	})

	t.Run("zero rows without entity name", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rows: 0}, "")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, CheckRowsAffected(nil, "card progress"))
	})

	t.Run("rows affected error", func(t *testing.T) {
		t.Parallel()
		err := CheckRowsAffected(fakeResult{rowsErr: errors.New("driver does not support")}, "card progress")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})
}
