package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
)

// CriticalItem resultado crudo de la consulta de insumos en o bajo su umbral crítico.
type CriticalItem struct {
	ItemID            int64
	Name              string
	ProductCode       *string
	TotalStock        int
	CriticalThreshold int
	CoveragePct       decimal.Decimal // total_stock * 100 / umbral, calculado en SQL (NUMERIC)
	NearestExpiry     *time.Time
}

// ItemRepository define el puerto de persistencia para insumos y su total agregado.
// ApplyDelta y LockForUpdate solo deben usarse dentro de una transacción del motor.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// UpdateCatalog actualiza nombre, código y umbral. Nunca toca total_stock.
	UpdateCatalog(ctx context.Context, item *entity.Item) error
	List(ctx context.Context) ([]*entity.Item, error)

	// LockForUpdate bloquea las filas de los insumos (SELECT FOR UPDATE) en orden ascendente de id.
	// Los ids inexistentes simplemente no aparecen en el mapa.
	LockForUpdate(ctx context.Context, ids []int64) (map[int64]*entity.Item, error)
	// ApplyDelta suma delta a total_stock de forma atómica en la BD; falla si quedaría negativo.
	ApplyDelta(ctx context.Context, id int64, delta int) (int, error)

	// ListDrift recalcula Σ stock de lotes por insumo y devuelve los que no coinciden.
	ListDrift(ctx context.Context) ([]entity.StockDrift, error)
	// RepairTotals iguala total_stock a la suma de lotes y devuelve lo corregido.
	RepairTotals(ctx context.Context) ([]entity.StockDrift, error)

	ListCritical(ctx context.Context) ([]CriticalItem, error)
}
