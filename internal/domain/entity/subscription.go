package entity

import "time"

// Planes de suscripción.
const (
	PlanPro = "pro"
)

// Subscription suscripción SaaS del tenant (una por tenant).
type Subscription struct {
	ID                   string
	OrgID                string
	StripeSubscriptionID string
	Plan                 string
	CurrentPeriodEnd     time.Time
	EndsAt               *time.Time // fijado al cancelar; nil = activa
	UpdatedAt            time.Time
}
