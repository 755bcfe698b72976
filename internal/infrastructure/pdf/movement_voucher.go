// Package pdf genera el comprobante imprimible de un movimiento de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: GestInvLab + tipo      │  N° Documento + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  REGISTRADO POR / SERVICIO DESTINO                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Código | Insumo | Lote | Cantidad               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL UNIDADES                                             │
//	│  QR (N° documento) + firmas                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/gestinvlab-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MovementVoucherGenerator implementa inventory.VoucherGenerator usando Maroto v2.
type MovementVoucherGenerator struct {
	orgName string
}

// NewMovementVoucherGenerator construye el generador. orgName encabeza el comprobante.
func NewMovementVoucherGenerator(orgName string) *MovementVoucherGenerator {
	return &MovementVoucherGenerator{orgName: orgName}
}

// GenerateMovementVoucher genera el PDF del movimiento y devuelve sus bytes.
func (g *MovementVoucherGenerator) GenerateMovementVoucher(m *entity.Movement) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("pdf: movimiento nil")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante "+m.DocumentNumber, true).
		WithAuthor(g.orgName, true).
		Build()

	mt := maroto.New(cfg)

	mt.AddRows(g.headerRow(m))
	mt.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	mt.AddRows(partiesRow(m))
	mt.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	mt.AddRows(tableHeaderRow())
	mt.AddRows(tableDetailRows(m.Lines)...)

	mt.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	mt.AddRows(totalRow(m))
	mt.AddRows(line.NewRow(6))
	mt.AddRows(footerRow(m))

	doc, err := mt.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MovementVoucherGenerator) headerRow(m *entity.Movement) core.Row {
	title := "COMPROBANTE DE ENTRADA"
	if m.Type == entity.MovementTypeExit {
		title = "COMPROBANTE DE SALIDA"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.orgName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Control de insumos de laboratorio", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(m.DocumentNumber, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+m.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func partiesRow(m *entity.Movement) core.Row {
	destination := "N/A"
	if m.Type == entity.MovementTypeExit {
		destination = nonEmpty(m.DestinationServiceName, "Servicio #"+formatID(m.DestinationServiceID))
	}
	return row.New(12).Add(
		col.New(6).Add(
			text.New("REGISTRADO POR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(m.ActorUsername, "usuario #"+strconv.FormatInt(m.ActorID, 10)), props.Text{Size: 9, Top: 6}),
		),
		col.New(6).Add(
			text.New("SERVICIO DESTINO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(destination, props.Text{Size: 9, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Código", 2, align.Left),
		h("Insumo", 5, align.Left),
		h("Lote", 2, align.Left),
		h("Cantidad", 2, align.Right),
	)
}

func tableDetailRows(lines []entity.MovementLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for i, l := range lines {
		itemCode := "—"
		if l.ItemCode != nil && *l.ItemCode != "" {
			itemCode = *l.ItemCode
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(itemCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(nonEmpty(l.ItemName, "insumo #"+strconv.FormatInt(l.ItemID, 10)), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.LotNumber, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatThousands(l.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalRow(m *entity.Movement) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL UNIDADES:", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
		col.New(2).Add(text.New(formatThousands(m.TotalQuantity()), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Top: 2,
		})),
	)
}

// footerRow: QR con el número de documento y espacio de firmas.
func footerRow(m *entity.Movement) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(m.DocumentNumber, props.Rect{Percent: 90, Center: true})),
		col.New(1),
		col.New(4).Add(
			text.New("______________________________", props.Text{Size: 9, Top: 24, Align: align.Center}),
			text.New("Entrega", props.Text{Size: 8, Top: 30, Align: align.Center, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("______________________________", props.Text{Size: 9, Top: 24, Align: align.Center}),
			text.New("Recibe", props.Text{Size: 8, Top: 30, Align: align.Center, Color: colorGray}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatID(id *int64) string {
	if id == nil {
		return "?"
	}
	return strconv.FormatInt(*id, 10)
}

// formatThousands inserta puntos de miles. Ej: 25000 → "25.000".
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	l := len(s)
	if l <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, l+l/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
