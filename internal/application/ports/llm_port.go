package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// EstimateInput datos que el modelo necesita para presupuestar.
type EstimateInput struct {
	VehicleYear    string
	VehicleMake    string
	VehicleModel   string
	ConditionNotes string
	Services       []entity.Service
}

// EstimateDraft presupuesto propuesto por el modelo (aún no persistido).
type EstimateDraft struct {
	Items           []entity.EstimateItem
	Total           decimal.Decimal
	SuggestedAddons []entity.SuggestedAddon
}

// InsightInput métricas que alimentan la recomendación de negocio.
type InsightInput struct {
	TotalRevenue      decimal.Decimal
	TotalAppointments int
	AverageRating     decimal.Decimal
}

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Gemini, Anthropic, mock) debe implementar esta interfaz.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type LLMService interface {
	// GenerateEstimate ajusta los precios base según las notas de condición y sugiere adicionales.
	GenerateEstimate(ctx context.Context, in EstimateInput) (*EstimateDraft, error)
	// AnswerQuestion responde una pregunta de un cliente sobre los servicios ofrecidos.
	AnswerQuestion(ctx context.Context, services []entity.Service, question string) (string, error)
	// GenerateInsight devuelve una recomendación corta (máx. 2 frases).
	GenerateInsight(ctx context.Context, in InsightInput) (string, error)
}
