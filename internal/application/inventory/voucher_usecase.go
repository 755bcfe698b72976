package inventory

import (
	"context"
)

// VoucherUseCase arma el comprobante PDF de un movimiento ya registrado.
type VoucherUseCase struct {
	movements *MovementUseCase
	generator VoucherGenerator
}

// NewVoucherUseCase construye el caso de uso.
func NewVoucherUseCase(movements *MovementUseCase, generator VoucherGenerator) *VoucherUseCase {
	return &VoucherUseCase{movements: movements, generator: generator}
}

// GetVoucherPDF devuelve el PDF y el número de documento (para el nombre del archivo).
func (uc *VoucherUseCase) GetVoucherPDF(ctx context.Context, movementID int64) ([]byte, string, error) {
	mov, err := uc.movements.GetMovement(ctx, movementID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateMovementVoucher(mov)
	if err != nil {
		return nil, "", err
	}
	return pdf, mov.DocumentNumber, nil
}
