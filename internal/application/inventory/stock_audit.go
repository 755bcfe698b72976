package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

// StockAuditUseCase recalcula total_stock como Σ stock de lotes y lo compara con el valor mantenido.
// No forma parte del camino de escritura: sirve a pruebas, al endpoint admin y al job programado.
type StockAuditUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewStockAuditUseCase construye el caso de uso.
func NewStockAuditUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, log zerolog.Logger) *StockAuditUseCase {
	return &StockAuditUseCase{txRunner: txRunner, itemRepo: itemRepo, log: log, now: time.Now}
}

// Verify devuelve los insumos cuyo total registrado difiere de la suma de sus lotes.
func (uc *StockAuditUseCase) Verify(ctx context.Context) (*dto.StockAuditResponse, error) {
	drifts, err := uc.itemRepo.ListDrift(ctx)
	if err != nil {
		return nil, err
	}
	if len(drifts) > 0 {
		uc.log.Warn().Int("items", len(drifts)).Msg("auditoría de stock: totales desalineados")
	}
	return toAuditResponse(uc.now(), drifts, false), nil
}

// Repair iguala total_stock a la suma de lotes dentro de una transacción que bloquea los insumos,
// de modo que no se cruza con movimientos en curso.
func (uc *StockAuditUseCase) Repair(ctx context.Context) (*dto.StockAuditResponse, error) {
	var repaired []entity.StockDrift
	err := uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		_ repository.BatchRepository,
		itemRepo repository.ItemRepository,
	) error {
		var err error
		repaired, err = itemRepo.RepairTotals(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, d := range repaired {
		uc.log.Warn().
			Int64("item_id", d.ItemID).
			Int("recorded", d.Recorded).
			Int("computed", d.Computed).
			Msg("auditoría de stock: total corregido")
	}
	return toAuditResponse(uc.now(), repaired, len(repaired) > 0), nil
}

func toAuditResponse(at time.Time, drifts []entity.StockDrift, repaired bool) *dto.StockAuditResponse {
	out := &dto.StockAuditResponse{
		CheckedAt:  at,
		Consistent: len(drifts) == 0 || repaired,
		Repaired:   repaired,
		Drifts:     make([]dto.StockDriftDTO, 0, len(drifts)),
	}
	for _, d := range drifts {
		out.Drifts = append(out.Drifts, dto.StockDriftDTO{
			ItemID:        d.ItemID,
			ItemName:      d.ItemName,
			RecordedStock: d.Recorded,
			ComputedStock: d.Computed,
			Delta:         d.Delta(),
		})
	}
	return out
}
