package dto

import "time"

// SubscriptionResponse suscripción del tenant.
type SubscriptionResponse struct {
	OrgID                string     `json:"org_id"`
	StripeSubscriptionID string     `json:"stripe_subscription_id"`
	Plan                 string     `json:"plan"`
	CurrentPeriodEnd     time.Time  `json:"current_period_end"`
	EndsAt               *time.Time `json:"ends_at,omitempty"`
	Active               bool       `json:"active"`
}

// PortalResponse URL del portal de facturación.
type PortalResponse struct {
	URL *string `json:"url"`
}
