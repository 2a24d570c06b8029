package http_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/infrastructure/payments"
	apphttp "github.com/jhoicas/slick-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeIdentityVerifier struct {
	ev  *ports.IdentityEvent
	err error
}

func (f fakeIdentityVerifier) Verify([]byte, http.Header) (*ports.IdentityEvent, error) {
	return f.ev, f.err
}

type fakeUsers struct{ stored []string }

func (f *fakeUsers) StoreUser(_ context.Context, id string) (string, error) {
	f.stored = append(f.stored, id)
	return "local_" + id, nil
}

type fakeOrders struct {
	got []ports.CheckoutCompleted
	err error
}

func (f *fakeOrders) FulfillOrder(_ context.Context, in ports.CheckoutCompleted) error {
	f.got = append(f.got, in)
	return f.err
}

type fakeSubscriptions struct{ got []ports.SubscriptionChanged }

func (f *fakeSubscriptions) ApplyStripeUpdate(_ context.Context, ev ports.SubscriptionChanged) error {
	f.got = append(f.got, ev)
	return nil
}

const stripeSecret = "whsec_handler_test"

type webhookEnv struct {
	app    *fiber.App
	users  *fakeUsers
	orders *fakeOrders
	subs   *fakeSubscriptions
}

func newWebhookEnv(idv ports.IdentityWebhookVerifier) *webhookEnv {
	env := &webhookEnv{users: &fakeUsers{}, orders: &fakeOrders{}, subs: &fakeSubscriptions{}}
	h := apphttp.NewWebhookHandler(idv, payments.NewWebhookVerifier(stripeSecret),
		env.users, env.orders, env.subs, zerolog.Nop())
	env.app = fiber.New()
	env.app.Post("/webhooks/identity", h.Identity)
	env.app.Post("/webhooks/stripe", h.Stripe)
	return env
}

func postStripe(t *testing.T, app *fiber.App, payload, sig string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", sig)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func signStripe(payload string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload), Secret: stripeSecret, Timestamp: time.Now(),
	}).Header
}

func checkoutPayload(metadata string) string {
	return fmt.Sprintf(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{
		"id":"cs_1","object":"checkout.session","payment_intent":"pi_1","metadata":%s}}}`, metadata)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stripe
// ──────────────────────────────────────────────────────────────────────────────

func TestStripeWebhook_CheckoutCompletado_CumplePedido(t *testing.T) {
	env := newWebhookEnv(fakeIdentityVerifier{})
	payload := checkoutPayload(`{"assessmentId":"as_1","selectedTime":"2026-06-01T10:00:00Z"}`)

	status, body := postStripe(t, env.app, payload, signStripe(payload))

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"received":true}`, body)
	require.Len(t, env.orders.got, 1)
	assert.Equal(t, "as_1", env.orders.got[0].AssessmentID)
	assert.Equal(t, "pi_1", env.orders.got[0].PaymentID)
}

func TestStripeWebhook_SinMetadata_400(t *testing.T) {
	env := newWebhookEnv(fakeIdentityVerifier{})
	payload := checkoutPayload(`{"assessmentId":"as_1"}`)

	status, body := postStripe(t, env.app, payload, signStripe(payload))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing metadata", body)
	assert.Empty(t, env.orders.got)
}

func TestStripeWebhook_FirmaInvalida_400(t *testing.T) {
	env := newWebhookEnv(fakeIdentityVerifier{})
	payload := checkoutPayload(`{"assessmentId":"as_1","selectedTime":"2026-06-01T10:00:00Z"}`)

	status, body := postStripe(t, env.app, payload, "t=1,v1=deadbeef")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, strings.HasPrefix(body, "Webhook Error: "), body)
	assert.Empty(t, env.orders.got)
}

func TestStripeWebhook_SuscripcionActualizada(t *testing.T) {
	env := newWebhookEnv(fakeIdentityVerifier{})
	payload := `{"id":"evt_2","object":"event","type":"customer.subscription.updated","data":{"object":{
		"id":"sub_1","object":"subscription","status":"active","current_period_end":1780000000,
		"items":{"object":"list","data":[{"id":"si_1","price":{"id":"price_1","lookup_key":"pro"}}]}}}}`

	status, _ := postStripe(t, env.app, payload, signStripe(payload))

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, env.subs.got, 1)
	assert.Equal(t, "sub_1", env.subs.got[0].StripeSubscriptionID)
}

func TestStripeWebhook_ErrorAlCumplir_500(t *testing.T) {
	env := newWebhookEnv(fakeIdentityVerifier{})
	env.orders.err = errors.New("db caída")
	payload := checkoutPayload(`{"assessmentId":"as_1","selectedTime":"2026-06-01T10:00:00Z"}`)

	status, _ := postStripe(t, env.app, payload, signStripe(payload))

	assert.Equal(t, http.StatusInternalServerError, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Identidad
// ──────────────────────────────────────────────────────────────────────────────

func postIdentity(t *testing.T, app *fiber.App) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", strings.NewReader(`{}`))
	req.Header.Set("svix-id", "msg_1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestIdentityWebhook_UserCreated_GuardaUsuario(t *testing.T) {
	env := newWebhookEnv(fakeIdentityVerifier{ev: &ports.IdentityEvent{Type: ports.IdentityEventUserCreated, DataID: "user_1"}})

	status, body := postIdentity(t, env.app)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)
	assert.Equal(t, []string{"user_1"}, env.users.stored)
}

func TestIdentityWebhook_OtroEvento_Ignorado(t *testing.T) {
	env := newWebhookEnv(fakeIdentityVerifier{ev: &ports.IdentityEvent{Type: "session.created", DataID: "sess_1"}})

	status, _ := postIdentity(t, env.app)

	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, env.users.stored)
}

func TestIdentityWebhook_FirmaInvalida_400(t *testing.T) {
	env := newWebhookEnv(fakeIdentityVerifier{err: fmt.Errorf("firma: %w", domain.ErrUnauthorized)})

	status, body := postIdentity(t, env.app)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request", body)
}

func TestIdentityWebhook_SinSecreto_500(t *testing.T) {
	env := newWebhookEnv(fakeIdentityVerifier{err: domain.ErrNotConfigured})

	status, _ := postIdentity(t, env.app)

	assert.Equal(t, http.StatusInternalServerError, status)
}
