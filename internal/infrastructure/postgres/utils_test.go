package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestinvlab-api/internal/domain"
)

func TestClassify_Contencion(t *testing.T) {
	for _, code := range []string{"55P03", "40001", "40P01", "57014"} {
		t.Run(code, func(t *testing.T) {
			err := classify("lock batches", &pgconn.PgError{Code: code})
			var cerr *domain.ConflictError
			assert.ErrorAs(t, err, &cerr)
			assert.Equal(t, "lock batches", cerr.Op)
		})
	}
}

func TestClassify_CheckEsStockInsuficiente(t *testing.T) {
	err := classify("apply batch delta", &pgconn.PgError{Code: "23514", ConstraintName: "batches_stock_check"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestClassify_ForeignKeyEsValidacion(t *testing.T) {
	err := classify("insert line", &pgconn.PgError{Code: "23503", ConstraintName: "movement_lines_batch_id_fkey"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrUnknownBatch)

	err = classify("insert movement", &pgconn.PgError{Code: "23503", ConstraintName: "movements_destination_service_id_fkey"})
	assert.ErrorIs(t, err, domain.ErrUnknownService)

	err = classify("insert batch", &pgconn.PgError{Code: "23503", ConstraintName: "batches_item_id_fkey"})
	assert.ErrorIs(t, err, domain.ErrUnknownItem)
}

func TestClassify_OtrosChecksSonValidacion(t *testing.T) {
	err := classify("insert movement", &pgconn.PgError{Code: "23514", ConstraintName: "movements_destination_check"})
	assert.ErrorIs(t, err, domain.ErrMissingDestination)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)

	err = classify("insert line", &pgconn.PgError{Code: "23514", ConstraintName: "movement_lines_quantity_check"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestClassify_OtrosSonPersistencia(t *testing.T) {
	cause := errors.New("conn closed")
	err := classify("commit transaction", cause)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, cause)

	assert.ErrorIs(t, classify("x", fmt.Errorf("wrap: %w", context.DeadlineExceeded)), domain.ErrConflict)
	assert.NoError(t, classify("x", nil))
}

func TestClassify_NoReenvuelveErroresDelMotor(t *testing.T) {
	orig := &domain.ConflictError{Op: "set document number"}
	assert.Same(t, orig, classify("otro", orig))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
}
