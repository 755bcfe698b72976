package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
	"github.com/jhoicas/gestinvlab-api/internal/application/inventory"
	"github.com/jhoicas/gestinvlab-api/internal/domain"
	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

// ReportUseCase reporte filtrado de movimientos (solo lectura).
type ReportUseCase struct {
	repo repository.ReportRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo}
}

// Movements aplica los filtros de la consulta y devuelve la página, más recientes primero.
func (uc *ReportUseCase) Movements(ctx context.Context, q dto.MovementReportQuery) (*dto.MovementReportResponse, error) {
	filter, err := toFilter(q)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *inventory.ToMovementResponse(m))
	}
	return &dto.MovementReportResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

func toFilter(q dto.MovementReportQuery) (repository.MovementFilter, error) {
	q.DefaultPage()
	f := repository.MovementFilter{Limit: q.Limit, Offset: q.Offset}
	verr := &domain.ValidationError{}

	parseDate := func(field, v string) *time.Time {
		if v == "" {
			return nil
		}
		t, err := time.Parse(inventory.DateLayout, v)
		if err != nil {
			verr.Add(domain.ErrInvalidInput, -1, field, "formato esperado YYYY-MM-DD")
			return nil
		}
		return &t
	}
	f.From = parseDate("from", q.From)
	f.To = parseDate("to", q.To)
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		verr.Add(domain.ErrInvalidInput, -1, "to", "la fecha final es anterior a la inicial")
	}

	switch q.Type {
	case "":
	case entity.MovementTypeEntry, entity.MovementTypeExit:
		f.Type = q.Type
	default:
		verr.Add(domain.ErrInvalidInput, -1, "type", "valores permitidos: Entrada, Salida")
	}
	if q.ItemID > 0 {
		f.ItemID = &q.ItemID
	}
	if q.ServiceID > 0 {
		f.ServiceID = &q.ServiceID
	}
	if q.UserID > 0 {
		f.UserID = &q.UserID
	}
	return f, verr.OrNil()
}
