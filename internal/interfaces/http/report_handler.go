package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestinvlab-api/internal/application/dto"
)

// MovementReporter reporte filtrado de movimientos.
type MovementReporter interface {
	Movements(ctx context.Context, q dto.MovementReportQuery) (*dto.MovementReportResponse, error)
}

// StockAuditor auditoría de total_stock contra la suma de lotes.
type StockAuditor interface {
	Verify(ctx context.Context) (*dto.StockAuditResponse, error)
	Repair(ctx context.Context) (*dto.StockAuditResponse, error)
}

// ReportHandler reportes y auditoría.
type ReportHandler struct {
	reports MovementReporter
	audit   StockAuditor
}

// NewReportHandler construye el handler.
func NewReportHandler(reports MovementReporter, audit StockAuditor) *ReportHandler {
	return &ReportHandler{reports: reports, audit: audit}
}

// Movements godoc
// @Summary      Reporte de movimientos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Param        type        query  string  false  "Entrada | Salida"
// @Param        item_id     query  int     false  "Insumo"
// @Param        service_id  query  int     false  "Servicio destino"
// @Param        user_id     query  int     false  "Usuario"
// @Param        limit       query  int     false  "Máx. 100"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	var q dto.MovementReportQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	q.Limit = c.QueryInt("limit", q.Limit)
	q.Offset = c.QueryInt("offset", q.Offset)
	out, err := h.reports.Movements(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockAudit godoc
// @Summary      Verificar que total_stock = Σ stock de lotes (admin)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockAuditResponse
// @Router       /api/admin/stock-audit [get]
func (h *ReportHandler) StockAudit(c *fiber.Ctx) error {
	out, err := h.audit.Verify(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RepairStock godoc
// @Summary      Corregir totales desalineados (admin)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockAuditResponse
// @Router       /api/admin/stock-audit/repair [post]
func (h *ReportHandler) RepairStock(c *fiber.Ctx) error {
	out, err := h.audit.Repair(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
