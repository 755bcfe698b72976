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

// ItemUseCase administración del catálogo de insumos. Nunca modifica total_stock.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un insumo con stock cero.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, -1, "name", "name es obligatorio")
	}
	if in.CriticalThreshold < 0 {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, -1, "critical_threshold", "no puede ser negativo")
	}
	now := time.Now()
	item := &entity.Item{
		Name:              name,
		ProductCode:       normalizeCode(in.ProductCode),
		CriticalThreshold: in.CriticalThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Update actualiza nombre, código y/o umbral crítico.
func (uc *ItemUseCase) Update(ctx context.Context, id int64, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError(domain.ErrInvalidInput, -1, "name", "name es obligatorio")
		}
		item.Name = name
	}
	if in.ProductCode != nil {
		item.ProductCode = normalizeCode(in.ProductCode)
	}
	if in.CriticalThreshold != nil {
		if *in.CriticalThreshold < 0 {
			return nil, domain.NewValidationError(domain.ErrInvalidInput, -1, "critical_threshold", "no puede ser negativo")
		}
		item.CriticalThreshold = *in.CriticalThreshold
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.UpdateCatalog(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un insumo.
func (uc *ItemUseCase) GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// List lista los insumos ordenados por nombre.
func (uc *ItemUseCase) List(ctx context.Context) ([]dto.ItemResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *toItemResponse(it))
	}
	return out, nil
}

// normalizeCode: código vacío se guarda como NULL para no chocar con el índice único.
func normalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	c := strings.TrimSpace(*code)
	if c == "" {
		return nil
	}
	return &c
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:                it.ID,
		Name:              it.Name,
		ProductCode:       it.ProductCode,
		CriticalThreshold: it.CriticalThreshold,
		TotalStock:        it.TotalStock,
		IsCritical:        it.IsCritical(),
		CreatedAt:         it.CreatedAt,
		UpdatedAt:         it.UpdatedAt,
	}
}
