package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitAssessmentRequest formulario público de autoevaluación.
type SubmitAssessmentRequest struct {
	OrgID          string `json:"org_id" validate:"required,notblank"`
	ClientName     string `json:"client_name" validate:"required,notblank,max=200"`
	ClientEmail    string `json:"client_email" validate:"required,email"`
	ClientPhone    string `json:"client_phone"`
	VehicleYear    string `json:"vehicle_year" validate:"required,numeric,len=4"`
	VehicleMake    string `json:"vehicle_make" validate:"required,notblank"`
	VehicleModel   string `json:"vehicle_model" validate:"required,notblank"`
	VIN            string `json:"vin" validate:"omitempty,vin"`
	ConditionNotes string `json:"condition_notes"`
}

// SubmitAssessmentResponse id del assessment creado.
type SubmitAssessmentResponse struct {
	AssessmentID string `json:"assessment_id"`
	JobStatus    string `json:"job_status"`
}

// AssessmentResponse assessment completo.
type AssessmentResponse struct {
	ID             string    `json:"id"`
	OrgID          string    `json:"org_id"`
	ClientName     string    `json:"client_name"`
	ClientEmail    string    `json:"client_email"`
	ClientPhone    string    `json:"client_phone"`
	VehicleYear    string    `json:"vehicle_year"`
	VehicleMake    string    `json:"vehicle_make"`
	VehicleModel   string    `json:"vehicle_model"`
	VIN            string    `json:"vin"`
	ConditionNotes string    `json:"condition_notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// EstimateItemDTO línea del presupuesto.
type EstimateItemDTO struct {
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// SuggestedAddonDTO adicional sugerido.
type SuggestedAddonDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// EstimateResponse presupuesto más el estado del trabajo que lo genera.
// Estimate es nil mientras el trabajo no haya terminado.
type EstimateResponse struct {
	AssessmentID string           `json:"assessment_id"`
	JobStatus    string           `json:"job_status"`
	JobError     string           `json:"job_error,omitempty"`
	Estimate     *EstimateBodyDTO `json:"estimate"`
}

// EstimateBodyDTO cuerpo del presupuesto.
type EstimateBodyDTO struct {
	Items           []EstimateItemDTO   `json:"items"`
	Total           decimal.Decimal     `json:"total"`
	SuggestedAddons []SuggestedAddonDTO `json:"suggested_addons"`
}
