package entity

import "time"

// Service es un servicio clínico destino de las salidas (ej. Urgencias, Medicina Hombres).
type Service struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
