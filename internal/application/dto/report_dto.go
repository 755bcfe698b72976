package dto

// MovementReportQuery filtros de GET /api/reports/movements (query string).
type MovementReportQuery struct {
	From      string `query:"from"` // YYYY-MM-DD
	To        string `query:"to"`   // YYYY-MM-DD
	Type      string `query:"type"` // Entrada | Salida
	ItemID    int64  `query:"item_id"`
	ServiceID int64  `query:"service_id"`
	UserID    int64  `query:"user_id"`
	PageRequest
}

// MovementReportResponse página de movimientos filtrados.
type MovementReportResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
