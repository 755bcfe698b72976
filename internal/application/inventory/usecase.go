package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gestinvlab-api/internal/domain"
	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
	"github.com/jhoicas/gestinvlab-api/internal/domain/repository"
)

// MovementUseCase coordina el registro de entradas y salidas: valida, y dentro de una sola
// transacción crea el encabezado, resuelve lotes, crea líneas, aplica deltas a lote e insumo
// y asigna el número de documento. Cualquier fallo revierte todo.
type MovementUseCase struct {
	txRunner    TxRunner
	itemRepo    repository.ItemRepository
	batchRepo   repository.BatchRepository
	serviceRepo repository.ServiceRepository
	movRepo     repository.MovementRepository
	log         zerolog.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	batchRepo repository.BatchRepository,
	serviceRepo repository.ServiceRepository,
	movRepo repository.MovementRepository,
	log zerolog.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:    txRunner,
		itemRepo:    itemRepo,
		batchRepo:   batchRepo,
		serviceRepo: serviceRepo,
		movRepo:     movRepo,
		log:         log,
	}
}

// EntryLineInput línea de entrada: insumo, lote (se crea si no existe), vencimiento opcional y cantidad.
type EntryLineInput struct {
	ItemID     int64
	LotNumber  string
	ExpiryDate *time.Time
	Quantity   int
}

// EntryInput entrada de stock registrada por ActorID.
type EntryInput struct {
	ActorID       int64
	ActorUsername string
	Lines         []EntryLineInput
}

// ExitLineInput línea de salida sobre un lote elegido por quien llama.
type ExitLineInput struct {
	BatchID  int64
	Quantity int
}

// ExitInput salida de stock hacia un servicio destino.
type ExitInput struct {
	ActorID              int64
	ActorUsername        string
	DestinationServiceID *int64
	Lines                []ExitLineInput
}

// CreateEntry registra una entrada. Errores: *domain.ValidationError, *domain.ConflictError,
// *domain.PersistenceError.
func (uc *MovementUseCase) CreateEntry(ctx context.Context, in EntryInput) (*entity.Movement, error) {
	in.Lines = normalizeEntryLines(in.Lines)
	if err := uc.validateEntry(ctx, in); err != nil {
		return nil, err
	}

	itemIDs := make([]int64, 0, len(in.Lines))
	for _, l := range in.Lines {
		itemIDs = append(itemIDs, l.ItemID)
	}
	itemIDs = uniqueSorted(itemIDs)

	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		batchRepo repository.BatchRepository,
		itemRepo repository.ItemRepository,
	) error {
		// Bloquea insumos en orden ascendente: toda transacción que toque un lote del insumo
		// pasa primero por aquí, así los movimientos sobre el mismo insumo se serializan.
		items, err := itemRepo.LockForUpdate(ctx, itemIDs)
		if err != nil {
			return err
		}
		verr := &domain.ValidationError{}
		for i, l := range in.Lines {
			if _, ok := items[l.ItemID]; !ok {
				verr.Add(domain.ErrUnknownItem, i, "item_id", fmt.Sprintf("insumo %d no existe", l.ItemID))
			}
		}
		if err := verr.OrNil(); err != nil {
			return err
		}

		m := &entity.Movement{Type: entity.MovementTypeEntry, ActorID: in.ActorID}
		if err := movRepo.CreateHeader(ctx, m); err != nil {
			return err
		}

		for _, l := range in.Lines {
			batch, created, err := batchRepo.GetOrCreate(ctx, l.ItemID, l.LotNumber, l.ExpiryDate)
			if err != nil {
				return err
			}
			if created {
				uc.log.Debug().Int64("batch_id", batch.ID).Int64("item_id", l.ItemID).Str("lot_number", l.LotNumber).Msg("lote creado")
			}
			line := entity.MovementLine{MovementID: m.ID, BatchID: batch.ID, Quantity: l.Quantity}
			if err := movRepo.CreateLine(ctx, &line); err != nil {
				return err
			}
			if _, err := batchRepo.ApplyDelta(ctx, batch.ID, l.Quantity); err != nil {
				return err
			}
			if _, err := itemRepo.ApplyDelta(ctx, l.ItemID, l.Quantity); err != nil {
				return err
			}
			item := items[l.ItemID]
			line.ItemID = item.ID
			line.ItemName = item.Name
			line.ItemCode = item.ProductCode
			line.LotNumber = batch.LotNumber
			m.Lines = append(m.Lines, line)
		}

		if err := assignDocumentNumber(ctx, movRepo, m); err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, uc.fail("registrar entrada", err)
	}
	mov.ActorUsername = in.ActorUsername
	uc.logCommitted(mov)
	return mov, nil
}

// CreateExit registra una salida. Verifica disponibilidad bajo bloqueo de fila y el decremento
// es condicional en la BD. Errores: *domain.ValidationError, *domain.InsufficientStockError,
// *domain.ConflictError, *domain.PersistenceError.
func (uc *MovementUseCase) CreateExit(ctx context.Context, in ExitInput) (*entity.Movement, error) {
	service, err := uc.validateExit(ctx, in)
	if err != nil {
		return nil, err
	}

	batchIDs := make([]int64, 0, len(in.Lines))
	for _, l := range in.Lines {
		batchIDs = append(batchIDs, l.BatchID)
	}
	batchIDs = uniqueSorted(batchIDs)

	var mov *entity.Movement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		batchRepo repository.BatchRepository,
		itemRepo repository.ItemRepository,
	) error {
		// item_id de un lote no cambia: se lee sin bloqueo para respetar el orden insumos → lotes.
		owners, err := batchRepo.ItemIDs(ctx, batchIDs)
		if err != nil {
			return err
		}
		if err := unknownBatches(in.Lines, owners); err != nil {
			return err
		}
		itemIDs := make([]int64, 0, len(owners))
		for _, itemID := range owners {
			itemIDs = append(itemIDs, itemID)
		}
		if _, err := itemRepo.LockForUpdate(ctx, uniqueSorted(itemIDs)); err != nil {
			return err
		}
		batches, err := batchRepo.LockForUpdate(ctx, batchIDs)
		if err != nil {
			return err
		}

		// Disponibilidad acumulada por lote: dos líneas sobre el mismo lote suman.
		remaining := make(map[int64]int, len(batches))
		for id, b := range batches {
			remaining[id] = b.Stock
		}
		for i, l := range in.Lines {
			b := batches[l.BatchID]
			if remaining[l.BatchID] < l.Quantity {
				return &domain.InsufficientStockError{
					Line:      i,
					BatchID:   b.ID,
					ItemID:    b.ItemID,
					ItemName:  b.ItemName,
					LotNumber: b.LotNumber,
					Available: remaining[l.BatchID],
					Requested: l.Quantity,
				}
			}
			remaining[l.BatchID] -= l.Quantity
		}

		m := &entity.Movement{
			Type:                 entity.MovementTypeExit,
			ActorID:              in.ActorID,
			DestinationServiceID: in.DestinationServiceID,
		}
		if err := movRepo.CreateHeader(ctx, m); err != nil {
			return err
		}

		for i, l := range in.Lines {
			b := batches[l.BatchID]
			line := entity.MovementLine{MovementID: m.ID, BatchID: b.ID, Quantity: l.Quantity}
			if err := movRepo.CreateLine(ctx, &line); err != nil {
				return err
			}
			if _, err := batchRepo.ApplyDelta(ctx, b.ID, -l.Quantity); err != nil {
				if errors.Is(err, domain.ErrInsufficientStock) {
					return &domain.InsufficientStockError{
						Line: i, BatchID: b.ID, ItemID: b.ItemID, ItemName: b.ItemName,
						LotNumber: b.LotNumber, Available: b.Stock, Requested: l.Quantity,
					}
				}
				return err
			}
			if _, err := itemRepo.ApplyDelta(ctx, b.ItemID, -l.Quantity); err != nil {
				return err
			}
			line.ItemID = b.ItemID
			line.ItemName = b.ItemName
			line.ItemCode = b.ItemCode
			line.LotNumber = b.LotNumber
			m.Lines = append(m.Lines, line)
		}

		if err := assignDocumentNumber(ctx, movRepo, m); err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, uc.fail("registrar salida", err)
	}
	mov.ActorUsername = in.ActorUsername
	mov.DestinationServiceName = service.Name
	uc.logCommitted(mov)
	return mov, nil
}

// GetMovement devuelve un movimiento con sus líneas o domain.ErrNotFound.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id int64) (*entity.Movement, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (uc *MovementUseCase) validateEntry(ctx context.Context, in EntryInput) error {
	verr := &domain.ValidationError{}
	if len(in.Lines) == 0 {
		verr.Add(domain.ErrEmptyLines, -1, "lines", "")
		return verr
	}
	for i, l := range in.Lines {
		if l.ItemID <= 0 {
			verr.Add(domain.ErrUnknownItem, i, "item_id", "item_id es obligatorio")
		}
		if l.LotNumber == "" {
			verr.Add(domain.ErrInvalidInput, i, "lot_number", "lot_number es obligatorio")
		}
		if l.Quantity <= 0 {
			verr.Add(domain.ErrInvalidQuantity, i, "quantity", "")
		}
	}
	if !verr.Empty() {
		return verr
	}
	checked := make(map[int64]bool, len(in.Lines))
	for i, l := range in.Lines {
		exists, seen := checked[l.ItemID]
		if !seen {
			var err error
			exists, err = uc.itemRepo.Exists(ctx, l.ItemID)
			if err != nil {
				return uc.fail("validar insumo", err)
			}
			checked[l.ItemID] = exists
		}
		if !exists {
			verr.Add(domain.ErrUnknownItem, i, "item_id", fmt.Sprintf("insumo %d no existe", l.ItemID))
		}
	}
	return verr.OrNil()
}

func (uc *MovementUseCase) validateExit(ctx context.Context, in ExitInput) (*entity.Service, error) {
	verr := &domain.ValidationError{}
	if len(in.Lines) == 0 {
		verr.Add(domain.ErrEmptyLines, -1, "lines", "")
	}
	if in.DestinationServiceID == nil || *in.DestinationServiceID <= 0 {
		verr.Add(domain.ErrMissingDestination, -1, "destination_service_id", "")
	}
	for i, l := range in.Lines {
		if l.BatchID <= 0 {
			verr.Add(domain.ErrUnknownBatch, i, "batch_id", "batch_id es obligatorio")
		}
		if l.Quantity <= 0 {
			verr.Add(domain.ErrInvalidQuantity, i, "quantity", "")
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	service, err := uc.serviceRepo.GetByID(ctx, *in.DestinationServiceID)
	if err != nil {
		return nil, uc.fail("validar servicio", err)
	}
	if service == nil {
		verr.Add(domain.ErrUnknownService, -1, "destination_service_id",
			fmt.Sprintf("servicio %d no existe", *in.DestinationServiceID))
	}
	ids := make([]int64, 0, len(in.Lines))
	for _, l := range in.Lines {
		ids = append(ids, l.BatchID)
	}
	owners, err := uc.batchRepo.ItemIDs(ctx, uniqueSorted(ids))
	if err != nil {
		return nil, uc.fail("validar lotes", err)
	}
	for i, l := range in.Lines {
		if _, ok := owners[l.BatchID]; !ok {
			verr.Add(domain.ErrUnknownBatch, i, "batch_id", fmt.Sprintf("lote %d no existe", l.BatchID))
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return service, nil
}

// normalizeEntryLines copia las líneas recortando espacios del número de lote.
func normalizeEntryLines(lines []EntryLineInput) []EntryLineInput {
	out := make([]EntryLineInput, len(lines))
	for i, l := range lines {
		l.LotNumber = strings.TrimSpace(l.LotNumber)
		out[i] = l
	}
	return out
}

func unknownBatches(lines []ExitLineInput, owners map[int64]int64) error {
	verr := &domain.ValidationError{}
	for i, l := range lines {
		if _, ok := owners[l.BatchID]; !ok {
			verr.Add(domain.ErrUnknownBatch, i, "batch_id", fmt.Sprintf("lote %d no existe", l.BatchID))
		}
	}
	return verr.OrNil()
}

// assignDocumentNumber usa el id y el año de creación del encabezado recién insertado.
func assignDocumentNumber(ctx context.Context, movRepo repository.MovementRepository, m *entity.Movement) error {
	m.DocumentNumber = entity.DocumentNumber(m.Type, m.CreatedAt, m.ID)
	return movRepo.SetDocumentNumber(ctx, m.ID, m.DocumentNumber)
}

// fail deja pasar los errores de la taxonomía del motor y envuelve el resto como persistencia.
func (uc *MovementUseCase) fail(op string, err error) error {
	if domain.IsEngineError(err) {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrPersistence) {
			uc.log.Warn().Err(err).Str("op", op).Msg("movimiento revertido")
		}
		return err
	}
	uc.log.Error().Err(err).Str("op", op).Msg("movimiento revertido")
	return &domain.PersistenceError{Op: op, Err: err}
}

func (uc *MovementUseCase) logCommitted(m *entity.Movement) {
	uc.log.Info().
		Int64("movement_id", m.ID).
		Str("document_number", m.DocumentNumber).
		Str("type", m.Type).
		Int64("actor_id", m.ActorID).
		Int("lines", len(m.Lines)).
		Int("total_quantity", m.TotalQuantity()).
		Msg("movimiento registrado")
}

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
