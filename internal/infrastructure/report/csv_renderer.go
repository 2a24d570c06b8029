// Package report serializa el reporte de clientes en formatos de intercambio (CSV, XML).
// El PDF vive en el paquete pdf junto con la cotización.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/slick-api/internal/application/ports"
)

var _ ports.ReportRenderer = (*CSVRenderer)(nil)

// csvHeader columnas del reporte; el orden es parte del contrato con el frontend.
var csvHeader = []string{"AppointmentDate", "ClientName", "Vehicle", "Price", "Status"}

// CSVRenderer reporte de clientes en CSV (RFC 4180).
type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer { return &CSVRenderer{} }

func (CSVRenderer) Format() string      { return "csv" }
func (CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }

// Render escribe una fila por cita. encoding/csv se encarga de las comillas.
func (CSVRenderer) Render(_ context.Context, r ports.ClientReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("report: csv header: %w", err)
	}
	for _, row := range r.Rows {
		rec := []string{
			row.AppointmentDate.UTC().Format("2006-01-02"),
			row.ClientName,
			row.Vehicle,
			row.Price.StringFixed(2),
			row.Status,
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("report: csv fila: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("report: csv flush: %w", err)
	}
	return buf.Bytes(), nil
}
