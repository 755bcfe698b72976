package repository

import (
	"context"

	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
)

// ServiceRepository define el puerto de persistencia para servicios destino.
type ServiceRepository interface {
	Create(ctx context.Context, service *entity.Service) error
	GetByID(ctx context.Context, id int64) (*entity.Service, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*entity.Service, error)
}
