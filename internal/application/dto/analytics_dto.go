package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastPointDTO ingreso proyectado de un mes.
type ForecastPointDTO struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DashboardMetricsDTO métricas cacheadas del tenant (GET /api/analytics/:orgId/metrics).
type DashboardMetricsDTO struct {
	TotalRevenue      decimal.Decimal    `json:"total_revenue"`
	TotalAppointments int                `json:"total_appointments"`
	AverageRating     decimal.Decimal    `json:"average_rating"`
	RevenueForecast   []ForecastPointDTO `json:"revenue_forecast"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// Report es un reporte ya renderizado listo para descargar.
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
}
