// Package pdf genera documentos imprimibles con Maroto v2: la cotización de un
// presupuesto y el reporte de clientes del tenant.
//
// Layout de la cotización (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio   │  COTIZACIÓN + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + contacto   │  VEHÍCULO: año marca modelo  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Precio                                 │
//	│  TOTAL                                                       │
//	│  ADICIONALES SUGERIDOS                                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain/entity"
)

var _ ports.EstimatePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 17, Green: 24, Blue: 39}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// money imprime importes con separador de miles en formato US ("$1,234.50").
var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

func money(d decimal.Decimal) string {
	return moneyPrinter.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.EstimatePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateEstimatePDF genera la cotización y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateEstimatePDF(
	_ context.Context,
	tenant *entity.Tenant,
	assessment *entity.Assessment,
	estimate *entity.Estimate,
) ([]byte, error) {
	m := newDocument("Vehicle Detailing Estimate", tenant.Name)

	m.AddRows(headerRow(tenant.Name, "ESTIMATE", estimate.CreatedAt.Format("Jan 02, 2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(assessment))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow([]string{"Description", "Price"}, []int{9, 3}))
	for _, it := range estimate.Items {
		m.AddRows(row.New(7).Add(
			col.New(9).Add(text.New(it.Description, props.Text{Size: 9, Top: 1, Left: 1})),
			col.New(3).Add(text.New(money(it.Price), props.Text{Size: 9, Top: 1, Align: align.Right, Right: 1})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(10).Add(
		col.New(9).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Right: 2, Top: 2, Color: colorPrimary,
		})),
		col.New(3).Add(text.New(money(estimate.Total), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Right: 1, Top: 2, Color: colorPrimary,
		})),
	))

	if len(estimate.SuggestedAddons) > 0 {
		m.AddRows(line.NewRow(4))
		m.AddRows(sectionTitle("SUGGESTED ADD-ONS (not included in total)"))
		for _, ad := range estimate.SuggestedAddons {
			m.AddRows(row.New(11).Add(
				col.New(9).Add(
					text.New(ad.Name, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1, Left: 1}),
					text.New(ad.Description, props.Text{Size: 8, Top: 6, Left: 1, Color: colorGray}),
				),
				col.New(3).Add(text.New(money(ad.Price), props.Text{Size: 9, Top: 1, Align: align.Right, Right: 1})),
			))
		}
	}

	m.AddRows(line.NewRow(4))
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New(
		"Prices are estimates based on the submitted condition notes and may change after inspection.",
		props.Text{Size: 7, Color: colorGray, Top: 2},
	))))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar cotización: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

// headerRow: nombre del negocio (izq) y tipo de documento + fecha (der).
func headerRow(business, docType, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(business, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 3,
			}),
		),
		col.New(5).Add(
			text.New(docType, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 2,
			}),
			text.New(date, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// partiesRow: cliente (izq) y vehículo (der).
func partiesRow(a *entity.Assessment) core.Row {
	vehicle := a.VehicleDescription()
	if a.VIN != "" {
		vehicle += "   VIN: " + a.VIN
	}
	contact := a.ClientEmail
	if a.ClientPhone != "" {
		contact += "   |   " + a.ClientPhone
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New("CLIENT", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(a.ClientName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(contact, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("VEHICLE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(vehicle, props.Text{Size: 9, Top: 6}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

// tableHeaderRow: cabecera de tabla; la última columna se alinea a la derecha (importes).
func tableHeaderRow(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, label := range labels {
		a := align.Left
		if i == len(labels)-1 {
			a = align.Right
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}
