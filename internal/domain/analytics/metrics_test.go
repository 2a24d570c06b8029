package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/slick-api/internal/domain/analytics"
	"github.com/jhoicas/slick-api/internal/domain/entity"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestComputeMetrics_Agregados(t *testing.T) {
	appts := []*entity.Appointment{
		{Price: price("100")},
		{Price: price("50.50")},
		{Price: nil}, // sin presupuesto cuenta como 0
	}
	reviews := []*entity.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	m := analytics.ComputeMetrics(appts, reviews, now)

	assert.True(t, m.TotalRevenue.Equal(decimal.RequireFromString("150.5")), "total=%s", m.TotalRevenue)
	assert.Equal(t, 3, m.TotalAppointments)
	assert.True(t, m.AverageRating.Equal(decimal.RequireFromString("4.3")), "promedio=%s", m.AverageRating)
	require.Len(t, m.RevenueForecast, analytics.ForecastMonths)
}

func TestComputeMetrics_SinDatos(t *testing.T) {
	m := analytics.ComputeMetrics(nil, nil, time.Now())

	assert.True(t, m.TotalRevenue.IsZero())
	assert.Equal(t, 0, m.TotalAppointments)
	assert.True(t, m.AverageRating.IsZero())
	for _, p := range m.RevenueForecast {
		assert.True(t, p.Revenue.IsZero(), "sin ingresos el pronóstico es 0")
	}
}

func TestForecast_EtiquetasYFormula(t *testing.T) {
	// Noviembre: los meses proyectados son Dec, Jan, Feb (cruce de año).
	now := time.Date(2026, time.November, 3, 0, 0, 0, 0, time.UTC)
	points := analytics.Forecast(decimal.NewFromInt(1000), 10, now)

	require.Len(t, points, 3)
	assert.Equal(t, "Dec", points[0].Month)
	assert.Equal(t, "Jan", points[1].Month)
	assert.Equal(t, "Feb", points[2].Month)

	// base = 1000/10*5 = 500; Jan: índice 0 → estacional 1; tendencia 0.2 → 600.
	assert.True(t, points[1].Revenue.Equal(decimal.NewFromInt(600)), "Jan=%s", points[1].Revenue)
	// Dec: índice 11 → sin(11/12·2π) = -0.5 → estacional 0.9; tendencia 0.1 → 495.
	assert.True(t, points[0].Revenue.Equal(decimal.NewFromInt(495)), "Dec=%s", points[0].Revenue)
}
