package dto

import "time"

// CreateItemRequest alta de insumo. total_stock no se acepta: solo lo mueven los movimientos.
type CreateItemRequest struct {
	Name              string  `json:"name" validate:"required,max=200"`
	ProductCode       *string `json:"product_code,omitempty" validate:"omitempty,max=50"`
	CriticalThreshold int     `json:"critical_threshold" validate:"min=0"`
}

// UpdateItemRequest actualización parcial de insumo (nombre, código, umbral).
type UpdateItemRequest struct {
	Name              *string `json:"name,omitempty"`
	ProductCode       *string `json:"product_code,omitempty"`
	CriticalThreshold *int    `json:"critical_threshold,omitempty"`
}

// ItemResponse salida de insumo.
type ItemResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	ProductCode       *string   `json:"product_code"`
	CriticalThreshold int       `json:"critical_threshold"`
	TotalStock        int       `json:"total_stock"`
	IsCritical        bool      `json:"is_critical"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateServiceRequest alta de servicio destino.
type CreateServiceRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ServiceResponse salida de servicio.
type ServiceResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
