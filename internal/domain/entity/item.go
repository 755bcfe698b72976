package entity

import "time"

// Item representa un insumo. TotalStock es una proyección mantenida por el motor de
// movimientos: siempre igual a la suma del stock de sus lotes.
type Item struct {
	ID                int64
	Name              string
	ProductCode       *string // único, opcional
	CriticalThreshold int
	TotalStock        int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsCritical indica si el stock total está en o bajo el umbral crítico.
func (i *Item) IsCritical() bool {
	return i.CriticalThreshold > 0 && i.TotalStock <= i.CriticalThreshold
}

// StockDrift diferencia entre el total registrado de un insumo y la suma real de sus lotes.
type StockDrift struct {
	ItemID   int64
	ItemName string
	Recorded int
	Computed int
}

// Delta devuelve cuánto hay que sumar al total registrado para igualar la suma de lotes.
func (d StockDrift) Delta() int { return d.Computed - d.Recorded }
