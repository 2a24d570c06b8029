// Package payments adaptador de Stripe: sesiones de checkout y del portal de
// facturación, y verificación de webhooks.
package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
)

var _ ports.PaymentProvider = (*StripeGateway)(nil)

// StripeGateway implementa ports.PaymentProvider con el cliente oficial.
type StripeGateway struct {
	sc *client.API
}

// NewStripeGateway con secretKey vacío las operaciones devuelven domain.ErrNotConfigured.
// backends permite apuntar a un servidor de pruebas; nil usa los de producción.
func NewStripeGateway(secretKey string, backends *stripe.Backends) *StripeGateway {
	if secretKey == "" {
		return &StripeGateway{}
	}
	return &StripeGateway{sc: client.New(secretKey, backends)}
}

// CreateCheckoutSession pago único de una línea por el importe indicado; devuelve la URL.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p ports.CheckoutParams) (string, error) {
	if g.sc == nil {
		return "", fmt.Errorf("stripe: STRIPE_SECRET_KEY: %w", domain.ErrNotConfigured)
	}
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(p.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(p.ProductName),
				},
				UnitAmount: stripe.Int64(p.AmountCents),
			},
			Quantity: stripe.Int64(1),
		}},
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	s, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: crear checkout: %v: %w", err, domain.ErrUpstream)
	}
	return s.URL, nil
}

// CreatePortalSession sesión del portal de facturación del cliente.
func (g *StripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	if g.sc == nil {
		return "", fmt.Errorf("stripe: STRIPE_SECRET_KEY: %w", domain.ErrNotConfigured)
	}
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	s, err := g.sc.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: crear sesión de portal: %v: %w", err, domain.ErrUpstream)
	}
	return s.URL, nil
}
