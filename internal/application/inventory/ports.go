package inventory

import (
	"context"

	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de movimientos: si fn devuelve error no sobrevive ninguna escritura.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		batchRepo repository.BatchRepository,
		itemRepo repository.ItemRepository,
	) error) error
}

// VoucherGenerator genera el comprobante PDF de un movimiento.
type VoucherGenerator interface {
	GenerateMovementVoucher(movement *entity.Movement) ([]byte, error)
}
