package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
)

// MovementFilter filtros del reporte de movimientos. Campos nil no filtran.
type MovementFilter struct {
	From      *time.Time // fecha inicial (inclusive, por día)
	To        *time.Time // fecha final (inclusive, por día)
	Type      string     // Entrada | Salida | vacío
	ItemID    *int64
	ServiceID *int64
	UserID    *int64
	Limit     int
	Offset    int
}

// ReportRepository lectura de movimientos para reportes. Las implementaciones son read-only.
type ReportRepository interface {
	ListMovements(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	CountMovements(ctx context.Context, filter MovementFilter) (int, error)
}
