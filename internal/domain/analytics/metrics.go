// Package analytics cálculos puros de las métricas del dashboard del detailer.
package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// ForecastMonths meses proyectados hacia adelante.
const ForecastMonths = 3

var monthLabels = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ComputeMetrics agrega citas y reseñas del tenant. now fija el mes base del pronóstico.
func ComputeMetrics(appointments []*entity.Appointment, reviews []*entity.Review, now time.Time) entity.DashboardMetrics {
	total := decimal.Zero
	for _, a := range appointments {
		total = total.Add(a.PriceOrZero())
	}

	avg := decimal.Zero
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		avg = decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(reviews)))).Round(1)
	}

	return entity.DashboardMetrics{
		TotalRevenue:      total.Round(2),
		TotalAppointments: len(appointments),
		AverageRating:     avg,
		RevenueForecast:   Forecast(total, len(appointments), now),
	}
}

// Forecast proyección estacional simple de los próximos ForecastMonths meses:
//
//	base        = ingreso / max(1, citas) * 5
//	tendencia   = (i+1) * 0.1
//	estacional  = sin(mes/12 * 2π) * 0.2 + 1
//	ingreso_i   = max(0, base * (1+tendencia) * estacional)
func Forecast(totalRevenue decimal.Decimal, totalAppointments int, now time.Time) []entity.ForecastPoint {
	currentMonth := int(now.Month()) - 1
	revenue, _ := totalRevenue.Float64()
	base := revenue / math.Max(1, float64(totalAppointments)) * 5

	points := make([]entity.ForecastPoint, 0, ForecastMonths)
	for i := 0; i < ForecastMonths; i++ {
		monthIndex := (currentMonth + i + 1) % 12
		trend := float64(i+1) * 0.1
		seasonality := math.Sin(float64(monthIndex)/12*math.Pi*2)*0.2 + 1
		projected := math.Max(0, base*(1+trend)*seasonality)
		points = append(points, entity.ForecastPoint{
			Month:   monthLabels[monthIndex],
			Revenue: decimal.NewFromFloat(projected).Round(2),
		})
	}
	return points
}
