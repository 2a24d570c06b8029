package entity

import "time"

// Availability franjas disponibles de un tenant (una por tenant).
type Availability struct {
	ID             string
	OrgID          string
	AvailableSlots []time.Time
	UpdatedAt      time.Time
}
