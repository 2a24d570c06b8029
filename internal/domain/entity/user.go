package entity

import "time"

// Roles de plataforma y de organización (claims del proveedor de identidad).
const (
	RoleAdmin       = "admin"
	OrgRoleDetailer = "org:detailer"
	OrgRoleClient   = "org:client"
)

// User registro local de un usuario del proveedor de identidad (alta vía webhook user.created).
type User struct {
	ID             string
	ExternalUserID string
	CreatedAt      time.Time
}
