package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de EstimateJob.
const (
	JobStatusPending    = "pending"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// EstimateItem línea del presupuesto.
type EstimateItem struct {
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// SuggestedAddon servicio adicional sugerido (no suma al total).
type SuggestedAddon struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Estimate presupuesto itemizado generado por IA (uno por assessment).
type Estimate struct {
	ID              string
	AssessmentID    string
	Items           []EstimateItem
	Total           decimal.Decimal
	SuggestedAddons []SuggestedAddon
	CreatedAt       time.Time
}

// EstimateJob seguimiento del trabajo en segundo plano (uno por assessment).
type EstimateJob struct {
	ID           string
	AssessmentID string
	Status       string // ver JobStatus*
	Attempts     int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
