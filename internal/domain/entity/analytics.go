package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastPoint ingreso proyectado de un mes.
type ForecastPoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DashboardMetrics métricas precalculadas del tenant.
type DashboardMetrics struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalAppointments int             `json:"total_appointments"`
	AverageRating     decimal.Decimal `json:"average_rating"`
	RevenueForecast   []ForecastPoint `json:"revenue_forecast"`
}

// AnalyticsCache métricas cacheadas por tenant; se sobrescriben en cada recálculo.
type AnalyticsCache struct {
	ID        string
	OrgID     string
	Metrics   DashboardMetrics
	UpdatedAt time.Time
}

// AIInsight recomendación de negocio generada por IA (solo se conserva la última).
type AIInsight struct {
	ID          string
	OrgID       string
	Insight     string
	GeneratedAt time.Time
}
