package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
)

const whSecret = "whsec_test_secret"

func sign(t *testing.T, payload string) string {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    whSecret,
		Timestamp: time.Now(),
	})
	return sp.Header
}

func TestVerify_CheckoutCompleted(t *testing.T) {
	payload := `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{
		"id":"cs_1","object":"checkout.session","payment_intent":"pi_1",
		"metadata":{"assessmentId":"as_1","selectedTime":"2026-06-01T10:00:00Z"}}}}`

	ev, err := NewWebhookVerifier(whSecret).Verify([]byte(payload), sign(t, payload))

	require.NoError(t, err)
	assert.Equal(t, ports.PaymentEventCheckoutCompleted, ev.Type)
	require.NotNil(t, ev.Checkout)
	assert.Equal(t, "as_1", ev.Checkout.AssessmentID)
	assert.Equal(t, "2026-06-01T10:00:00Z", ev.Checkout.SelectedTime)
	assert.Equal(t, "pi_1", ev.Checkout.PaymentID)
}

func TestVerify_SubscriptionUpdated(t *testing.T) {
	payload := `{"id":"evt_2","object":"event","type":"customer.subscription.updated","data":{"object":{
		"id":"sub_1","object":"subscription","status":"active","current_period_end":1780000000,
		"items":{"object":"list","data":[{"id":"si_1","price":{"id":"price_1","lookup_key":"pro"}}]}}}}`

	ev, err := NewWebhookVerifier(whSecret).Verify([]byte(payload), sign(t, payload))

	require.NoError(t, err)
	require.NotNil(t, ev.Subscription)
	assert.Equal(t, "sub_1", ev.Subscription.StripeSubscriptionID)
	assert.Equal(t, "active", ev.Subscription.Status)
	assert.Equal(t, "pro", ev.Subscription.Plan)
	assert.Equal(t, time.Unix(1780000000, 0).UTC(), ev.Subscription.CurrentPeriodEnd)
}

func TestVerify_FirmaInvalida(t *testing.T) {
	payload := `{"id":"evt_3","object":"event","type":"invoice.paid","data":{"object":{}}}`

	_, err := NewWebhookVerifier(whSecret).Verify([]byte(payload), "t=1,v1=deadbeef")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerify_EventoNoProcesado(t *testing.T) {
	payload := `{"id":"evt_4","object":"event","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`

	ev, err := NewWebhookVerifier(whSecret).Verify([]byte(payload), sign(t, payload))

	require.NoError(t, err)
	assert.Equal(t, "invoice.paid", ev.Type)
	assert.Nil(t, ev.Checkout)
	assert.Nil(t, ev.Subscription)
}

func TestGateway_SinClave(t *testing.T) {
	_, err := NewStripeGateway("", nil).CreatePortalSession(t.Context(), "cus_1", "http://x")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
