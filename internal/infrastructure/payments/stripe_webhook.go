package payments

import (
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79/webhook"
	"github.com/tidwall/gjson"

	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
)

var _ ports.PaymentWebhookVerifier = (*WebhookVerifier)(nil)

// WebhookVerifier valida la cabecera Stripe-Signature y traduce el evento.
type WebhookVerifier struct {
	secret string
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify devuelve el evento con Checkout o Subscription informado según el tipo.
// Los tipos que la aplicación no procesa vuelven solo con Type.
func (v *WebhookVerifier) Verify(payload []byte, signatureHeader string) (*ports.PaymentEvent, error) {
	if v.secret == "" {
		return nil, fmt.Errorf("stripe: STRIPE_WEBHOOK_SECRET: %w", domain.ErrNotConfigured)
	}
	ev, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrUnauthorized)
	}

	out := &ports.PaymentEvent{Type: string(ev.Type)}
	obj := gjson.ParseBytes(ev.Data.Raw)

	switch out.Type {
	case ports.PaymentEventCheckoutCompleted:
		paymentID := obj.Get("payment_intent").String()
		if pi := obj.Get("payment_intent.id"); pi.Exists() {
			paymentID = pi.String()
		}
		if paymentID == "" {
			paymentID = obj.Get("id").String()
		}
		out.Checkout = &ports.CheckoutCompleted{
			AssessmentID: obj.Get("metadata.assessmentId").String(),
			SelectedTime: obj.Get("metadata.selectedTime").String(),
			PaymentID:    paymentID,
		}
	case ports.PaymentEventSubscriptionUpdated, ports.PaymentEventSubscriptionDeleted:
		periodEnd := obj.Get("current_period_end")
		if !periodEnd.Exists() {
			periodEnd = obj.Get("items.data.0.current_period_end")
		}
		out.Subscription = &ports.SubscriptionChanged{
			StripeSubscriptionID: obj.Get("id").String(),
			CurrentPeriodEnd:     time.Unix(periodEnd.Int(), 0).UTC(),
			Plan:                 obj.Get("items.data.0.price.lookup_key").String(),
			Status:               obj.Get("status").String(),
		}
	}
	return out, nil
}
