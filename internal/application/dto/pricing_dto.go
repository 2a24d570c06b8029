package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceDTO servicio del catálogo.
type ServiceDTO struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
}

// PricingModelResponse catálogo del tenant.
type PricingModelResponse struct {
	OrgID     string       `json:"org_id"`
	Services  []ServiceDTO `json:"services"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// UpdateServicePriceRequest cambio del precio base de un servicio.
type UpdateServicePriceRequest struct {
	ServiceName string          `json:"service_name" validate:"required,notblank"`
	NewPrice    decimal.Decimal `json:"new_price"`
}

// SlotsResponse franjas disponibles.
type SlotsResponse struct {
	Slots []time.Time `json:"slots"`
}

// ReplaceSlotsRequest reemplazo de la agenda del tenant.
type ReplaceSlotsRequest struct {
	Slots []time.Time `json:"slots"`
}
