package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestinvlab-api/internal/domain"
)

func TestValidationError_CoincideConCategoriaYKinds(t *testing.T) {
	v := &domain.ValidationError{}
	v.Add(domain.ErrInvalidQuantity, 0, "quantity", "")
	v.Add(domain.ErrUnknownBatch, 1, "batch_id", "lote 99 no existe")

	err := v.OrNil()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.ErrorIs(t, err, domain.ErrUnknownBatch)
	assert.NotErrorIs(t, err, domain.ErrEmptyLines)

	var ve *domain.ValidationError
	require.True(t, errors.As(fmt.Errorf("envuelto: %w", err), &ve))
	require.Len(t, ve.Issues, 2)
	assert.Equal(t, "INVALID_QUANTITY", ve.Issues[0].Code)
	assert.Equal(t, "UNKNOWN_BATCH", ve.Issues[1].Code)
	assert.Equal(t, 1, ve.Issues[1].Line)
}

func TestValidationError_OrNilSinProblemas(t *testing.T) {
	v := &domain.ValidationError{}
	assert.NoError(t, v.OrNil())
	assert.True(t, v.Empty())
}

func TestInsufficientStockError_MensajeConDetalle(t *testing.T) {
	err := &domain.InsufficientStockError{ItemName: "Jeringa 5ml", LotNumber: "L1", Available: 4, Requested: 7}
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "Stock insuficiente para Jeringa 5ml (Lote: L1). Stock disponible: 4, Solicitado: 7", err.Error())
}

func TestConflictYPersistence_Desenvuelven(t *testing.T) {
	cause := errors.New("lock timeout")
	conflict := &domain.ConflictError{Op: "lock batches", Err: cause}
	assert.ErrorIs(t, conflict, domain.ErrConflict)
	assert.ErrorIs(t, conflict, cause)

	persist := &domain.PersistenceError{Op: "commit", Err: cause}
	assert.ErrorIs(t, persist, domain.ErrPersistence)
	assert.NotErrorIs(t, persist, domain.ErrConflict)

	assert.True(t, domain.IsEngineError(conflict))
	assert.True(t, domain.IsEngineError(persist))
	assert.False(t, domain.IsEngineError(cause))
}
