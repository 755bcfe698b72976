package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

// idealFactor stock ideal = umbral crítico × 1.5.
var idealFactor = decimal.NewFromFloat(1.5)

// CriticalStockUseCase lista los insumos en o bajo su umbral crítico con la cantidad sugerida de pedido.
type CriticalStockUseCase struct {
	itemRepo repository.ItemRepository
}

// NewCriticalStockUseCase construye el caso de uso.
func NewCriticalStockUseCase(itemRepo repository.ItemRepository) *CriticalStockUseCase {
	return &CriticalStockUseCase{itemRepo: itemRepo}
}

// ListCritical devuelve los insumos críticos priorizados: menor cobertura primero,
// luego mayor déficit absoluto y por último vencimiento más próximo.
func (uc *CriticalStockUseCase) ListCritical(ctx context.Context) ([]dto.CriticalItemDTO, error) {
	rawItems, err := uc.itemRepo.ListCritical(ctx)
	if err != nil {
		return nil, err
	}
	if len(rawItems) == 0 {
		return []dto.CriticalItemDTO{}, nil
	}

	out := make([]dto.CriticalItemDTO, 0, len(rawItems))
	for _, it := range rawItems {
		ideal := int(decimal.NewFromInt(int64(it.CriticalThreshold)).Mul(idealFactor).Ceil().IntPart())
		suggested := ideal - it.TotalStock
		if suggested < 0 {
			suggested = 0
		}
		row := dto.CriticalItemDTO{
			ItemID:            it.ItemID,
			Name:              it.Name,
			ProductCode:       it.ProductCode,
			TotalStock:        it.TotalStock,
			CriticalThreshold: it.CriticalThreshold,
			CoveragePct:       it.CoveragePct.Round(2),
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
		}
		if it.NearestExpiry != nil {
			s := it.NearestExpiry.Format(DateLayout)
			row.NearestExpiry = &s
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CoveragePct.Equal(b.CoveragePct) {
			return a.CoveragePct.LessThan(b.CoveragePct)
		}
		defA := a.CriticalThreshold - a.TotalStock
		defB := b.CriticalThreshold - b.TotalStock
		if defA != defB {
			return defA > defB
		}
		if a.NearestExpiry == nil || b.NearestExpiry == nil {
			return a.NearestExpiry != nil
		}
		return *a.NearestExpiry < *b.NearestExpiry
	})

	// 1 = más urgente
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
