package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/slick-api/internal/application/ports"
)

var _ ports.ReportRenderer = (*ReportRenderer)(nil)

// ReportRenderer reporte de clientes en PDF.
type ReportRenderer struct{}

// NewReportRenderer construye el renderer.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

func (ReportRenderer) Format() string      { return "pdf" }
func (ReportRenderer) ContentType() string { return "application/pdf" }

// Render una fila por cita más el total facturado.
func (ReportRenderer) Render(_ context.Context, r ports.ClientReport) ([]byte, error) {
	m := newDocument("Client Report", r.TenantName)

	m.AddRows(headerRow(r.TenantName, "CLIENT REPORT", r.GeneratedAt.Format("Jan 02, 2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	sizes := []int{2, 3, 3, 2, 2}
	m.AddRows(tableHeaderRow([]string{"Date", "Client", "Vehicle", "Status", "Price"}, sizes))

	total := decimal.Zero
	for _, rr := range r.Rows {
		total = total.Add(rr.Price)
		m.AddRows(row.New(6).Add(
			col.New(sizes[0]).Add(text.New(rr.AppointmentDate.Format("2006-01-02"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(sizes[1]).Add(text.New(rr.ClientName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(sizes[2]).Add(text.New(rr.Vehicle, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(sizes[3]).Add(text.New(rr.Status, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(sizes[4]).Add(text.New(money(rr.Price), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(9).Add(
		col.New(10).Add(text.New(fmt.Sprintf("%d appointments", len(r.Rows)), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 2,
		})),
		col.New(2).Add(text.New(money(total), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Top: 2,
		})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}
