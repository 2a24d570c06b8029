package ports

import (
	"context"
	"time"
)

// CheckoutParams datos del checkout de una cita.
type CheckoutParams struct {
	AmountCents   int64
	Currency      string
	ProductName   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// PaymentProvider operaciones contra el proveedor de pagos.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

// Tipos de evento de pagos que la aplicación procesa.
const (
	PaymentEventCheckoutCompleted   = "checkout.session.completed"
	PaymentEventSubscriptionUpdated = "customer.subscription.updated"
	PaymentEventSubscriptionDeleted = "customer.subscription.deleted"
)

// CheckoutCompleted datos del checkout pagado (metadata puesta en CreateCheckoutSession).
type CheckoutCompleted struct {
	AssessmentID string
	SelectedTime string
	PaymentID    string
}

// SubscriptionChanged datos de la suscripción actualizada o cancelada.
type SubscriptionChanged struct {
	StripeSubscriptionID string
	CurrentPeriodEnd     time.Time
	Plan                 string
	Status               string
}

// PaymentEvent evento verificado. Solo uno de Checkout/Subscription viene informado según Type.
type PaymentEvent struct {
	Type         string
	Checkout     *CheckoutCompleted
	Subscription *SubscriptionChanged
}

// PaymentWebhookVerifier verifica la cabecera de firma y decodifica el evento.
type PaymentWebhookVerifier interface {
	Verify(payload []byte, signatureHeader string) (*PaymentEvent, error)
}
