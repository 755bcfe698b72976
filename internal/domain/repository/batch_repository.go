package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
)

// BatchRepository define el puerto del almacén de lotes (stock por lote e identidad insumo+lote).
type BatchRepository interface {
	// GetOrCreate obtiene o crea el lote (itemID, lotNumber). Seguro ante carreras: si otra
	// transacción crea el mismo lote, se devuelve la fila ganadora. Si expiry no es nil y
	// difiere de la registrada, se actualiza. created indica si la fila es nueva.
	GetOrCreate(ctx context.Context, itemID int64, lotNumber string, expiry *time.Time) (batch *entity.Batch, created bool, err error)
	GetByID(ctx context.Context, id int64) (*entity.Batch, error)
	// ItemIDs devuelve batchID → itemID para los lotes existentes (sin bloqueo; item_id no cambia).
	ItemIDs(ctx context.Context, ids []int64) (map[int64]int64, error)
	// LockForUpdate bloquea los lotes (SELECT FOR UPDATE) en orden ascendente de id.
	LockForUpdate(ctx context.Context, ids []int64) (map[int64]*entity.Batch, error)
	// ApplyDelta suma delta al stock del lote de forma atómica y condicional (stock + delta >= 0).
	// Devuelve domain.ErrInsufficientStock si el resultado sería negativo.
	ApplyDelta(ctx context.Context, id int64, delta int) (int, error)
	// ListAvailable lotes con stock > 0 del insumo, por vencimiento ascendente (nulos al final).
	ListAvailable(ctx context.Context, itemID int64) ([]*entity.Batch, error)
}
