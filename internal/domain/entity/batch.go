package entity

import "time"

// Batch representa un lote de un insumo, identificado por (ItemID, LotNumber).
// Se crea en la primera entrada del lote y nunca se elimina; puede quedar en stock cero.
type Batch struct {
	ID           int64
	ItemID       int64
	LotNumber    string
	ExpiryDate   *time.Time
	ReceivedDate time.Time
	Stock        int

	// Datos de lectura (JOIN con items), no persistidos en batches.
	ItemName string
	ItemCode *string
}
