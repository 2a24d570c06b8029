package dto

import "time"

// ConciergeRequest pregunta de un cliente al asistente del negocio.
type ConciergeRequest struct {
	Question string `json:"question" validate:"required,notblank,max=1000"`
}

// ConciergeResponse respuesta en texto plano.
type ConciergeResponse struct {
	Answer string `json:"answer"`
}

// InsightResponse última recomendación de negocio.
type InsightResponse struct {
	Insight     string    `json:"insight"`
	GeneratedAt time.Time `json:"generated_at"`
}
