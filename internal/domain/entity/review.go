package entity

import "time"

// Review reseña de una cita (una por appointment).
type Review struct {
	ID            string
	AppointmentID string
	OrgID         string
	Rating        int
	Comment       string
	ClientName    string // solo el primer nombre
	CreatedAt     time.Time
}
