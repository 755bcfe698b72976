package entity

import (
	"fmt"
	"time"
)

// Tipos de movimiento. Los valores son los persistidos y expuestos en la API.
const (
	MovementTypeEntry = "Entrada"
	MovementTypeExit  = "Salida"
)

// IsValidMovementType indica si t es Entrada o Salida.
func IsValidMovementType(t string) bool {
	return t == MovementTypeEntry || t == MovementTypeExit
}

// DocumentPrefix devuelve ENT para entradas y SAL para salidas.
func DocumentPrefix(movementType string) string {
	if movementType == MovementTypeExit {
		return "SAL"
	}
	return "ENT"
}

// DocumentNumber arma el número de documento visible: {ENT|SAL}-{año}-{id con 5 dígitos}.
// El id es global (no se reinicia por año).
func DocumentNumber(movementType string, createdAt time.Time, id int64) string {
	return fmt.Sprintf("%s-%d-%05d", DocumentPrefix(movementType), createdAt.Year(), id)
}

// Movement es el encabezado de un movimiento de inventario. Inmutable una vez confirmado.
type Movement struct {
	ID                   int64
	Type                 string
	ActorID              int64
	CreatedAt            time.Time
	DestinationServiceID *int64 // obligatorio en salidas, nil en entradas
	DocumentNumber       string
	Lines                []MovementLine

	// Datos de lectura.
	ActorUsername          string
	DestinationServiceName string
}

// TotalQuantity suma las cantidades de todas las líneas.
func (m *Movement) TotalQuantity() int {
	total := 0
	for _, l := range m.Lines {
		total += l.Quantity
	}
	return total
}

// MovementLine es una línea (lote, cantidad) de un movimiento; cada una es un delta de stock.
type MovementLine struct {
	ID         int64
	MovementID int64
	BatchID    int64
	Quantity   int

	// Datos de lectura (lote e insumo).
	ItemID    int64
	ItemName  string
	ItemCode  *string
	LotNumber string
}
