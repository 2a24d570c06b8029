package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCheckoutRequest inicio del pago de un assessment.
type CreateCheckoutRequest struct {
	AssessmentID string    `json:"assessment_id" validate:"required"`
	SelectedTime time.Time `json:"selected_time" validate:"required"`
}

// CheckoutResponse URL de checkout (null si el proveedor falló).
type CheckoutResponse struct {
	URL *string `json:"url"`
}

// AppointmentResponse cita.
type AppointmentResponse struct {
	ID                 string           `json:"id"`
	AssessmentID       string           `json:"assessment_id"`
	OrgID              string           `json:"org_id"`
	ClientName         string           `json:"client_name"`
	VehicleDescription string           `json:"vehicle_description"`
	AppointmentTime    time.Time        `json:"appointment_time"`
	Status             string           `json:"status"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	CalendarEventID    string           `json:"calendar_event_id,omitempty"`
}

// AppointmentListResponse listado de citas.
type AppointmentListResponse struct {
	Items []AppointmentResponse `json:"items"`
}
