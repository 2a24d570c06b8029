package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de Appointment.
const (
	AppointmentBooked    = "booked"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment cita reservada y pagada, ligada a un assessment (una por assessment).
type Appointment struct {
	ID                 string
	AssessmentID       string
	OrgID              string
	ClientName         string
	ClientEmail        string
	VehicleDescription string
	AppointmentTime    time.Time
	Status             string
	PaymentID          string
	Price              *decimal.Decimal // nil si no había presupuesto al reservar
	CalendarEventID    string
	CreatedAt          time.Time
}

// PriceOrZero precio para agregaciones.
func (a *Appointment) PriceOrZero() decimal.Decimal {
	if a.Price == nil {
		return decimal.Zero
	}
	return *a.Price
}
