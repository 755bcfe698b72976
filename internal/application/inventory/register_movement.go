package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
	"github.com/jhoicas/gestinvlab-api/internal/domain"
	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
)

// DateLayout formato de fechas de vencimiento y filtros (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// CreateEntryFromRequest adapta el request HTTP al caso de uso CreateEntry.
func (uc *MovementUseCase) CreateEntryFromRequest(ctx context.Context, actorID int64, actorUsername string, in dto.CreateEntryRequest) (*dto.MovementResponse, error) {
	input := EntryInput{ActorID: actorID, ActorUsername: actorUsername}
	verr := &domain.ValidationError{}
	for i, l := range in.Lines {
		line := EntryLineInput{ItemID: l.ItemID, LotNumber: l.LotNumber, Quantity: l.Quantity}
		if l.ExpiryDate != nil && *l.ExpiryDate != "" {
			t, err := time.Parse(DateLayout, *l.ExpiryDate)
			if err != nil {
				verr.Add(domain.ErrInvalidInput, i, "expiry_date", "formato esperado YYYY-MM-DD")
			} else {
				line.ExpiryDate = &t
			}
		}
		input.Lines = append(input.Lines, line)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	mov, err := uc.CreateEntry(ctx, input)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// CreateExitFromRequest adapta el request HTTP al caso de uso CreateExit.
func (uc *MovementUseCase) CreateExitFromRequest(ctx context.Context, actorID int64, actorUsername string, in dto.CreateExitRequest) (*dto.MovementResponse, error) {
	input := ExitInput{
		ActorID:              actorID,
		ActorUsername:        actorUsername,
		DestinationServiceID: in.DestinationServiceID,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, ExitLineInput{BatchID: l.BatchID, Quantity: l.Quantity})
	}
	mov, err := uc.CreateExit(ctx, input)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// GetMovementResponse devuelve el movimiento listo para serializar.
func (uc *MovementUseCase) GetMovementResponse(ctx context.Context, id int64) (*dto.MovementResponse, error) {
	mov, err := uc.GetMovement(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// ToMovementResponse convierte la entidad en DTO de salida.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	out := &dto.MovementResponse{
		ID:                     m.ID,
		DocumentNumber:         m.DocumentNumber,
		Type:                   m.Type,
		CreatedAt:              m.CreatedAt,
		ActorID:                m.ActorID,
		ActorUsername:          m.ActorUsername,
		DestinationServiceID:   m.DestinationServiceID,
		DestinationServiceName: m.DestinationServiceName,
		TotalQuantity:          m.TotalQuantity(),
		Lines:                  make([]dto.MovementLineResponse, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		out.Lines = append(out.Lines, dto.MovementLineResponse{
			ID:        l.ID,
			BatchID:   l.BatchID,
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			ItemCode:  l.ItemCode,
			LotNumber: l.LotNumber,
			Quantity:  l.Quantity,
		})
	}
	return out
}

// ToBatchResponse convierte un lote en DTO de salida.
func ToBatchResponse(b *entity.Batch) dto.BatchResponse {
	out := dto.BatchResponse{
		ID:           b.ID,
		ItemID:       b.ItemID,
		ItemName:     b.ItemName,
		ItemCode:     b.ItemCode,
		LotNumber:    b.LotNumber,
		ReceivedDate: b.ReceivedDate.Format(DateLayout),
		Stock:        b.Stock,
	}
	if b.ExpiryDate != nil {
		s := b.ExpiryDate.Format(DateLayout)
		out.ExpiryDate = &s
	}
	return out
}
