package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryLineRequest línea de una entrada: el lote se crea si no existe para (item_id, lot_number).
type EntryLineRequest struct {
	ItemID     int64   `json:"item_id"`
	LotNumber  string  `json:"lot_number"`
	ExpiryDate *string `json:"expiry_date,omitempty"` // YYYY-MM-DD
	Quantity   int     `json:"quantity"`
}

// CreateEntryRequest body para POST /api/inventory/entries.
type CreateEntryRequest struct {
	Lines []EntryLineRequest `json:"lines"`
}

// ExitLineRequest línea de una salida: el lote lo elige quien llama.
type ExitLineRequest struct {
	BatchID  int64 `json:"batch_id"`
	Quantity int   `json:"quantity"`
}

// CreateExitRequest body para POST /api/inventory/exits.
type CreateExitRequest struct {
	DestinationServiceID *int64            `json:"destination_service_id"`
	Lines                []ExitLineRequest `json:"lines"`
}

// MovementLineResponse línea de un movimiento con datos del lote e insumo.
type MovementLineResponse struct {
	ID        int64   `json:"id"`
	BatchID   int64   `json:"batch_id"`
	ItemID    int64   `json:"item_id"`
	ItemName  string  `json:"item_name"`
	ItemCode  *string `json:"item_code,omitempty"`
	LotNumber string  `json:"lot_number"`
	Quantity  int     `json:"quantity"`
}

// MovementResponse salida de un movimiento (entrada o salida) con sus líneas.
type MovementResponse struct {
	ID                     int64                  `json:"id"`
	DocumentNumber         string                 `json:"document_number"`
	Type                   string                 `json:"type"`
	CreatedAt              time.Time              `json:"created_at"`
	ActorID                int64                  `json:"actor_id"`
	ActorUsername          string                 `json:"actor_username,omitempty"`
	DestinationServiceID   *int64                 `json:"destination_service_id"`
	DestinationServiceName string                 `json:"destination_service_name,omitempty"`
	TotalQuantity          int                    `json:"total_quantity"`
	Lines                  []MovementLineResponse `json:"lines"`
}

// BatchResponse lote con stock disponible (ayuda de selección para salidas).
type BatchResponse struct {
	ID           int64   `json:"id"`
	ItemID       int64   `json:"item_id"`
	ItemName     string  `json:"item_name"`
	ItemCode     *string `json:"item_code,omitempty"`
	LotNumber    string  `json:"lot_number"`
	ExpiryDate   *string `json:"expiry_date"`
	ReceivedDate string  `json:"received_date"`
	Stock        int     `json:"stock"`
}

// CriticalItemDTO insumo en o bajo su umbral crítico con sugerencia de pedido.
type CriticalItemDTO struct {
	ItemID            int64           `json:"item_id"`
	Name              string          `json:"name"`
	ProductCode       *string         `json:"product_code,omitempty"`
	TotalStock        int             `json:"total_stock"`
	CriticalThreshold int             `json:"critical_threshold"`
	CoveragePct       decimal.Decimal `json:"coverage_pct"`        // total_stock / umbral * 100
	IdealStock        int             `json:"ideal_stock"`         // ceil(umbral * 1.5)
	SuggestedOrderQty int             `json:"suggested_order_qty"` // IdealStock - TotalStock
	NearestExpiry     *string         `json:"nearest_expiry,omitempty"`
	Priority          int             `json:"priority"` // 1 = más urgente
}

// StockDriftDTO diferencia entre el total registrado y la suma de lotes.
type StockDriftDTO struct {
	ItemID        int64  `json:"item_id"`
	ItemName      string `json:"item_name"`
	RecordedStock int    `json:"recorded_stock"`
	ComputedStock int    `json:"computed_stock"`
	Delta         int    `json:"delta"`
}

// StockAuditResponse resultado de la auditoría (o reparación) de totales.
type StockAuditResponse struct {
	CheckedAt  time.Time       `json:"checked_at"`
	Consistent bool            `json:"consistent"`
	Repaired   bool            `json:"repaired"`
	Drifts     []StockDriftDTO `json:"drifts"`
}
