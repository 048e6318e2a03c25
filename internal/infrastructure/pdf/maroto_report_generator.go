// Package pdf implementa el reporte de inventario por celda con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Inventario por celda  │  Código celda + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CELDA: bodega / rol / estado de ocupación                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Estado | Cant | Bultos | Peso | Volumen   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: suma de la ocupación actual                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/farmadepot/bodega-api/internal/application/reports"
	"github.com/farmadepot/bodega-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 96, Blue: 80}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ reports.PDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa reports.PDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// InventoryByCellPDF genera el reporte de saldos de una celda y devuelve
// sus bytes.
func (g *MarotoReportGenerator) InventoryByCellPDF(
	_ context.Context,
	cell *entity.Cell,
	records []*entity.InventoryRecord,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Inventario por celda "+cell.Code(), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(cell))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(cellInfoRow(cell))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRecordRows(records) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(cell))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y código de celda + fecha de emisión (der).
func headerRow(cell *entity.Cell) core.Row {
	fecha := time.Now().Format("02/01/2006 15:04")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("INVENTARIO POR CELDA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Bodega farmacéutica", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CELDA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(cell.Code(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// cellInfoRow: bodega, rol de la celda y estado de ocupación.
func cellInfoRow(cell *entity.Cell) core.Row {
	assigned := "uso general"
	if cell.AssignedClientID != "" {
		assigned = "cliente " + cell.AssignedClientID
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DE LA CELDA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Bodega: %s   |   Rol: %s   |   Estado: %s   |   Asignación: %s",
				cell.WarehouseID, cell.Role, cell.Status, assigned,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de saldos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Estado", 2, align.Center),
		h("Cant.", 2, align.Right),
		h("Bultos", 1, align.Right),
		h("Peso (kg)", 2, align.Right),
		h("Vol. (m³)", 1, align.Right),
	)
}

// tableRecordRows: una fila por registro (producto, estado).
func tableRecordRows(records []*entity.InventoryRecord) []core.Row {
	result := make([]core.Row, 0, len(records))
	for _, rec := range records {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				rec.ProductID,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				rec.Status,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", rec.Balance.Quantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", rec.Balance.Packages),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				rec.Balance.Weight.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				rec.Balance.Volume.StringFixed(3),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: ocupación actual de la celda.
func totalsRow(cell *entity.Cell) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	u := cell.CurrentUsage
	return row.New(22).Add(
		col.New(4), // espacio izquierdo
		col.New(4).Add(
			label("Unidades:"),
			label("Bultos:"),
			label("Peso (kg):"),
			label("Volumen (m³):"),
		),
		col.New(4).Add(
			value(fmt.Sprintf("%d", u.Quantity)),
			value(fmt.Sprintf("%d", u.Packages)),
			value(u.Weight.StringFixed(2)),
			value(u.Volume.StringFixed(3)),
		),
	)
}
