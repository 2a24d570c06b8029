package entity

import "time"

// Assessment formulario de condición del vehículo enviado por un cliente potencial.
type Assessment struct {
	ID             string
	OrgID          string
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	VehicleYear    string
	VehicleMake    string
	VehicleModel   string
	VIN            string
	ConditionNotes string
	CreatedAt      time.Time
}

// VehicleDescription "<año> <marca> <modelo>".
func (a *Assessment) VehicleDescription() string {
	return a.VehicleYear + " " + a.VehicleMake + " " + a.VehicleModel
}
