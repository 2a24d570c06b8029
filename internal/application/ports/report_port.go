package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// ReportRow una cita en el reporte de clientes.
type ReportRow struct {
	AppointmentDate time.Time
	ClientName      string
	Vehicle         string
	Price           decimal.Decimal
	Status          string
}

// ClientReport datos del reporte de clientes de un tenant.
type ClientReport struct {
	TenantName  string
	GeneratedAt time.Time
	Rows        []ReportRow
}

// ReportRenderer serializa el reporte en un formato concreto (csv, xml, pdf).
type ReportRenderer interface {
	Format() string
	ContentType() string
	Render(ctx context.Context, r ClientReport) ([]byte, error)
}

// EstimatePDFGenerator genera la cotización imprimible de un presupuesto.
type EstimatePDFGenerator interface {
	GenerateEstimatePDF(
		ctx context.Context,
		tenant *entity.Tenant,
		assessment *entity.Assessment,
		estimate *entity.Estimate,
	) ([]byte, error)
}
