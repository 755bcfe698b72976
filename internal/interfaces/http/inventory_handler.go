package http

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
	"github.com/jhoicas/gestinvlab-api/internal/domain"
)

// MovementService registro y consulta de movimientos.
type MovementService interface {
	CreateEntryFromRequest(ctx context.Context, actorID int64, actorUsername string, in dto.CreateEntryRequest) (*dto.MovementResponse, error)
	CreateExitFromRequest(ctx context.Context, actorID int64, actorUsername string, in dto.CreateExitRequest) (*dto.MovementResponse, error)
	GetMovementResponse(ctx context.Context, id int64) (*dto.MovementResponse, error)
}

// BatchLister lotes disponibles de un insumo.
type BatchLister interface {
	ListAvailable(ctx context.Context, itemID int64) ([]dto.BatchResponse, error)
}

// CriticalLister lista de insumos en stock crítico.
type CriticalLister interface {
	ListCritical(ctx context.Context) ([]dto.CriticalItemDTO, error)
}

// VoucherService comprobante PDF de un movimiento.
type VoucherService interface {
	GetVoucherPDF(ctx context.Context, movementID int64) ([]byte, string, error)
}

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	movements MovementService
	batches   BatchLister
	critical  CriticalLister
	vouchers  VoucherService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movements MovementService, batches BatchLister, critical CriticalLister, vouchers VoucherService) *InventoryHandler {
	return &InventoryHandler{movements: movements, batches: batches, critical: critical, vouchers: vouchers}
}

// CreateEntry godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEntryRequest  true  "líneas: item_id, lot_number, expiry_date (opcional), quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/entries [post]
func (h *InventoryHandler) CreateEntry(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.movements.CreateEntryFromRequest(c.UserContext(), actorID, GetUsername(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateExit godoc
// @Summary      Registrar salida de stock hacia un servicio
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExitRequest  true  "destination_service_id y líneas: batch_id, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/exits [post]
func (h *InventoryHandler) CreateExit(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateExitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.movements.CreateExitFromRequest(c.UserContext(), actorID, GetUsername(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetMovement godoc
// @Summary      Obtener movimiento con sus líneas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.movements.GetMovementResponse(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetMovementPDF godoc
// @Summary      Comprobante PDF del movimiento
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/pdf [get]
func (h *InventoryHandler) GetMovementPDF(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	pdf, docNumber, err := h.vouchers.GetVoucherPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, docNumber))
	return c.Send(pdf)
}

// ListBatches godoc
// @Summary      Lotes disponibles de un insumo (vencimiento más próximo primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  int  true  "ID del insumo"
// @Success      200  {array}   dto.BatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	itemID, _ := strconv.ParseInt(c.Query("item_id"), 10, 64)
	out, err := h.batches.ListAvailable(c.UserContext(), itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListCritical godoc
// @Summary      Insumos en stock crítico con cantidad sugerida de pedido
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/critical [get]
func (h *InventoryHandler) ListCritical(c *fiber.Ctx) error {
	list, err := h.critical.ListCritical(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(domain.ErrInvalidInput, -1, name, "id inválido")
	}
	return id, nil
}
