package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
	"github.com/jhoicas/gestinvlab-api/internal/domain"
	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

// ServiceUseCase administración de servicios destino de las salidas.
type ServiceUseCase struct {
	repo repository.ServiceRepository
}

// NewServiceUseCase construye el caso de uso.
func NewServiceUseCase(repo repository.ServiceRepository) *ServiceUseCase {
	return &ServiceUseCase{repo: repo}
}

// Create crea un servicio. Nombre duplicado → domain.ErrDuplicate.
func (uc *ServiceUseCase) Create(ctx context.Context, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, -1, "name", "name es obligatorio")
	}
	svc := &entity.Service{Name: name, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return toServiceResponse(svc), nil
}

// List lista los servicios ordenados por nombre.
func (uc *ServiceUseCase) List(ctx context.Context) ([]dto.ServiceResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toServiceResponse(s))
	}
	return out, nil
}

func toServiceResponse(s *entity.Service) *dto.ServiceResponse {
	return &dto.ServiceResponse{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt}
}
