package inventory

import (
	"context"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
	"github.com/jhoicas/gestinvlab-api/internal/domain"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

// BatchUseCase consulta de lotes disponibles como ayuda para elegir el lote de una salida.
// El orden por vencimiento es solo informativo: el motor nunca elige el lote.
type BatchUseCase struct {
	batchRepo repository.BatchRepository
	itemRepo  repository.ItemRepository
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(batchRepo repository.BatchRepository, itemRepo repository.ItemRepository) *BatchUseCase {
	return &BatchUseCase{batchRepo: batchRepo, itemRepo: itemRepo}
}

// ListAvailable lotes con stock > 0 del insumo, vencimiento más próximo primero (sin fecha al final).
func (uc *BatchUseCase) ListAvailable(ctx context.Context, itemID int64) ([]dto.BatchResponse, error) {
	if itemID <= 0 {
		return nil, domain.NewValidationError(domain.ErrUnknownItem, -1, "item_id", "item_id es obligatorio")
	}
	exists, err := uc.itemRepo.Exists(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	batches, err := uc.batchRepo.ListAvailable(ctx, itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, ToBatchResponse(b))
	}
	return out, nil
}
