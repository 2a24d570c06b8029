package entity

import "time"

// DefaultThemeColor color con el que nace todo tenant.
const DefaultThemeColor = "#ffffff"

// Tenant representa un negocio de detailing (1:1 con una organización del proveedor de identidad).
type Tenant struct {
	ID               string
	Name             string
	OrgID            string // ID de la organización en el proveedor de identidad
	ThemeColor       string
	StripeCustomerID string // vacío mientras no exista cliente en Stripe
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
