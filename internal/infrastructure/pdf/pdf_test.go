package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain/entity"
)

func TestGenerateEstimatePDF_DocumentoValido(t *testing.T) {
	tenant := &entity.Tenant{Name: "Shine Bros"}
	a := &entity.Assessment{
		ClientName: "Ana Ruiz", ClientEmail: "ana@example.com",
		VehicleYear: "2020", VehicleMake: "Honda", VehicleModel: "Civic",
	}
	e := &entity.Estimate{
		Items:           []entity.EstimateItem{{Description: "Exterior Wash", Price: decimal.NewFromInt(45)}},
		Total:           decimal.NewFromInt(45),
		SuggestedAddons: []entity.SuggestedAddon{{Name: "Wax", Description: "Shine", Price: decimal.NewFromInt(80)}},
		CreatedAt:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	out, err := NewMarotoPDFGenerator().GenerateEstimatePDF(context.Background(), tenant, a, e)

	require.NoError(t, err)
	assert.True(t, len(out) > 4 && string(out[:4]) == "%PDF")
}

func TestReportRenderer_PDF(t *testing.T) {
	r := NewReportRenderer()
	out, err := r.Render(context.Background(), ports.ClientReport{
		TenantName:  "Shine Bros",
		GeneratedAt: time.Now(),
		Rows: []ports.ReportRow{
			{AppointmentDate: time.Now(), ClientName: "Ana", Vehicle: "2020 Honda Civic", Price: decimal.NewFromInt(45), Status: "booked"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "pdf", r.Format())
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestMoney_SeparadorDeMiles(t *testing.T) {
	assert.Equal(t, "$1,234.50", money(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$0.00", money(decimal.Zero))
}
