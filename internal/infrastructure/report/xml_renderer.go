package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/slick-api/internal/application/ports"
)

var _ ports.ReportRenderer = (*XMLRenderer)(nil)

// XMLRenderer reporte de clientes en XML para importación en sistemas contables.
//
//	<ClientReport tenant="..." generatedAt="..." count="N">
//	  <Appointment date="..." status="...">
//	    <ClientName/> <Vehicle/> <Price currency="USD"/>
//	  </Appointment>
//	</ClientReport>
type XMLRenderer struct{}

func NewXMLRenderer() *XMLRenderer { return &XMLRenderer{} }

func (XMLRenderer) Format() string      { return "xml" }
func (XMLRenderer) ContentType() string { return "application/xml" }

func (XMLRenderer) Render(_ context.Context, r ports.ClientReport) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("ClientReport")
	root.CreateAttr("tenant", r.TenantName)
	root.CreateAttr("generatedAt", r.GeneratedAt.UTC().Format(time.RFC3339))
	root.CreateAttr("count", strconv.Itoa(len(r.Rows)))

	for _, row := range r.Rows {
		el := root.CreateElement("Appointment")
		el.CreateAttr("date", row.AppointmentDate.UTC().Format(time.RFC3339))
		el.CreateAttr("status", row.Status)
		el.CreateElement("ClientName").SetText(row.ClientName)
		el.CreateElement("Vehicle").SetText(row.Vehicle)
		price := el.CreateElement("Price")
		price.CreateAttr("currency", "USD")
		price.SetText(row.Price.StringFixed(2))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("report: serializar xml: %w", err)
	}
	return out, nil
}
