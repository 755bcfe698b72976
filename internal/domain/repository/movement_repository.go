package repository

import (
	"context"

	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
)

// MovementRepository define el puerto del libro de movimientos (solo inserción).
type MovementRepository interface {
	// CreateHeader inserta el encabezado y completa ID y CreatedAt.
	CreateHeader(ctx context.Context, movement *entity.Movement) error
	// SetDocumentNumber asigna el número de documento (una sola vez, misma transacción).
	SetDocumentNumber(ctx context.Context, movementID int64, documentNumber string) error
	// CreateLine inserta una línea y completa su ID.
	CreateLine(ctx context.Context, line *entity.MovementLine) error
	// GetByID devuelve el movimiento con sus líneas, o nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
}
