package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
)

// Contratos mínimos de los casos de uso que disparan los webhooks.
type userStorer interface {
	StoreUser(ctx context.Context, externalUserID string) (string, error)
}

type orderFulfiller interface {
	FulfillOrder(ctx context.Context, in ports.CheckoutCompleted) error
}

type subscriptionUpdater interface {
	ApplyStripeUpdate(ctx context.Context, ev ports.SubscriptionChanged) error
}

// WebhookHandler eventos firmados del proveedor de identidad (Svix) y de Stripe.
type WebhookHandler struct {
	identity      ports.IdentityWebhookVerifier
	payments      ports.PaymentWebhookVerifier
	users         userStorer
	orders        orderFulfiller
	subscriptions subscriptionUpdater
	log           zerolog.Logger
}

func NewWebhookHandler(
	identity ports.IdentityWebhookVerifier,
	payments ports.PaymentWebhookVerifier,
	users userStorer,
	orders orderFulfiller,
	subscriptions subscriptionUpdater,
	log zerolog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		identity: identity, payments: payments,
		users: users, orders: orders, subscriptions: subscriptions,
		log: log,
	}
}

// svixHeaders cabeceras que firma Svix (con y sin prefijo de marca).
var svixHeaders = []string{
	"svix-id", "svix-timestamp", "svix-signature",
	"webhook-id", "webhook-timestamp", "webhook-signature",
}

// Identity godoc
// @Summary      Webhook del proveedor de identidad
// @Description  Verifica la firma Svix. user.created registra el usuario local.
// @Tags         webhooks
// @Accept       json
// @Produce      plain
// @Success      200  {string}  string  "OK"
// @Failure      400  {string}  string  "Invalid request"
// @Failure      500  {string}  string
// @Router       /webhooks/identity [post]
func (h *WebhookHandler) Identity(c *fiber.Ctx) error {
	headers := http.Header{}
	for _, k := range svixHeaders {
		if v := c.Get(k); v != "" {
			headers.Set(k, v)
		}
	}
	ev, err := h.identity.Verify(c.Body(), headers)
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			h.log.Error().Err(err).Msg("webhook identidad sin secreto configurado")
			return c.Status(fiber.StatusInternalServerError).SendString("Webhook secret not configured")
		}
		h.log.Warn().Err(err).Msg("webhook identidad inválido")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request")
	}

	switch ev.Type {
	case ports.IdentityEventUserCreated:
		if _, err := h.users.StoreUser(c.UserContext(), ev.DataID); err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return c.Status(fiber.StatusBadRequest).SendString("Invalid request")
			}
			h.log.Error().Err(err).Str("user_id", ev.DataID).Msg("guardar usuario del webhook")
			return c.Status(fiber.StatusInternalServerError).SendString("Internal error")
		}
	default:
		h.log.Info().Str("type", ev.Type).Msg("webhook identidad ignorado")
	}
	return c.SendString("OK")
}

// Stripe godoc
// @Summary      Webhook de Stripe
// @Description  checkout.session.completed crea la cita; customer.subscription.* actualiza la suscripción.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      400  {string}  string  "Webhook Error: ..."
// @Router       /webhooks/stripe [post]
func (h *WebhookHandler) Stripe(c *fiber.Ctx) error {
	ev, err := h.payments.Verify(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			h.log.Error().Err(err).Msg("webhook stripe sin secreto configurado")
			return c.Status(fiber.StatusInternalServerError).SendString("Webhook secret not configured")
		}
		h.log.Warn().Err(err).Msg("webhook stripe inválido")
		msg := strings.TrimSuffix(err.Error(), ": "+domain.ErrUnauthorized.Error())
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: " + msg)
	}

	ctx := c.UserContext()
	switch ev.Type {
	case ports.PaymentEventCheckoutCompleted:
		if ev.Checkout == nil || ev.Checkout.AssessmentID == "" || ev.Checkout.SelectedTime == "" {
			return c.Status(fiber.StatusBadRequest).SendString("Missing metadata")
		}
		if err := h.orders.FulfillOrder(ctx, *ev.Checkout); err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: " + err.Error())
			}
			h.log.Error().Err(err).Str("assessment_id", ev.Checkout.AssessmentID).Msg("cumplir pedido")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
		}
	case ports.PaymentEventSubscriptionUpdated, ports.PaymentEventSubscriptionDeleted:
		if ev.Subscription == nil {
			return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: subscription vacía")
		}
		if err := h.subscriptions.ApplyStripeUpdate(ctx, *ev.Subscription); err != nil {
			h.log.Error().Err(err).Str("subscription_id", ev.Subscription.StripeSubscriptionID).Msg("actualizar suscripción")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
		}
	default:
		h.log.Info().Str("type", ev.Type).Msg("evento de stripe no procesado")
	}
	return c.JSON(fiber.Map{"received": true})
}
