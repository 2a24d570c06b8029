package http_test

import (
	"context"
	"errors"
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

	appanalytics "github.com/jhoicas/slick-api/internal/application/analytics"
	"github.com/jhoicas/slick-api/internal/application/estimate"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/application/scheduling"
	"github.com/jhoicas/slick-api/internal/application/usecase"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/infrastructure/memory"
	"github.com/jhoicas/slick-api/internal/infrastructure/payments"
	apphttp "github.com/jhoicas/slick-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/slick-api/pkg/jwt"
)

type fakePaymentProvider struct{ portalErr error }

func (f fakePaymentProvider) CreateCheckoutSession(context.Context, ports.CheckoutParams) (string, error) {
	return "https://checkout.example.com/s/1", nil
}

func (f fakePaymentProvider) CreatePortalSession(context.Context, string, string) (string, error) {
	if f.portalErr != nil {
		return "", f.portalErr
	}
	return "https://billing.example.com/p/1", nil
}

// newRouterApp monta el router completo sobre el store en memoria con un tenant
// (testOrgID) que ya tiene cliente y suscripción en Stripe.
func newRouterApp(t *testing.T, pay fakePaymentProvider) *fiber.App {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now().UTC()
	require.NoError(t, store.Tenants().Create(ctx, &entity.Tenant{
		ID: "t1", Name: "Shine Co", OrgID: testOrgID, StripeCustomerID: "cus_1", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Subscriptions().Create(ctx, &entity.Subscription{
		ID: "s1", OrgID: testOrgID, StripeSubscriptionID: "sub_1", Plan: entity.PlanPro,
		CurrentPeriodEnd: now.Add(30 * 24 * time.Hour), UpdatedAt: now,
	}))

	log := zerolog.Nop()
	const hostingURL = "https://app.example.com"
	deps := apphttp.RouterDeps{
		UserUC:         usecase.NewUserUseCase(store.Users()),
		TenantUC:       usecase.NewTenantUseCase(store, store.Tenants(), nil, nil, time.UTC, log),
		PricingUC:      usecase.NewPricingUseCase(store.Pricing(), store.Availability()),
		ReviewUC:       usecase.NewReviewUseCase(store.Reviews(), store.Appointments()),
		SubscriptionUC: usecase.NewSubscriptionUseCase(store.Subscriptions(), store.Tenants(), pay, hostingURL, log),
		AIUC:           usecase.NewAIUseCase(nil, store.Pricing(), store.AnalyticsCache(), store.Insights(), log),
		EstimateUC:     estimate.NewUseCase(store, store.Tenants(), store.Assessments(), store.EstimateJobs(), store.Estimates(), nil),
		SchedulingUC: scheduling.NewUseCase(store, store.Tenants(), store.Assessments(), store.Estimates(),
			store.Appointments(), pay, hostingURL, log),
		AnalyticsUC: appanalytics.NewUseCase(store.Tenants(), store.Appointments(), store.Reviews(),
			store.AnalyticsCache(), store.Tasks(), nil, log),
		Webhooks: apphttp.NewWebhookHandler(fakeIdentityVerifier{}, payments.NewWebhookVerifier(stripeSecret),
			&fakeUsers{}, &fakeOrders{}, &fakeSubscriptions{}, log),
		JWTSecret: testJWTSecret,
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return app
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(body))
}

func TestRouter_NoMiembro_RutasDeOrganizacion(t *testing.T) {
	app := newRouterApp(t, fakePaymentProvider{})
	outsider := token(t, pkgjwt.Identity{UserID: "user_otro", OrgID: "org_ajena", OrgRole: "org:detailer"})

	for _, path := range []string{
		"/api/tenants/" + testOrgID + "/reviews",
		"/api/tenants/" + testOrgID + "/insight",
		"/api/analytics/" + testOrgID + "/metrics",
		"/api/analytics/" + testOrgID + "/forecast",
		"/api/analytics/" + testOrgID + "/report?format=csv",
	} {
		t.Run(path, func(t *testing.T) {
			resp := doRequest(t, app, path, outsider)

			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), "FORBIDDEN")
		})
	}
}

func TestRouter_NoMiembro_CitasVacias(t *testing.T) {
	app := newRouterApp(t, fakePaymentProvider{})
	outsider := token(t, pkgjwt.Identity{UserID: "user_otro", OrgID: "org_ajena"})

	resp := doRequest(t, app, "/api/tenants/"+testOrgID+"/appointments", outsider)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":[]}`, readBody(t, resp))
}

func TestRouter_NoMiembro_SuscripcionNull(t *testing.T) {
	app := newRouterApp(t, fakePaymentProvider{})
	outsider := token(t, pkgjwt.Identity{UserID: "user_otro", OrgID: "org_ajena"})

	resp := doRequest(t, app, "/api/tenants/"+testOrgID+"/subscription", outsider)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "null", readBody(t, resp))
}

func TestRouter_Miembro_VeSuscripcionYResenas(t *testing.T) {
	app := newRouterApp(t, fakePaymentProvider{})
	member := token(t, pkgjwt.Identity{UserID: testUserID, OrgID: testOrgID, OrgRole: "org:detailer"})

	resp := doRequest(t, app, "/api/tenants/"+testOrgID+"/subscription", member)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"stripe_subscription_id":"sub_1"`)

	resp = doRequest(t, app, "/api/tenants/"+testOrgID+"/reviews", member)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":[]}`, readBody(t, resp))
}

func TestRouter_MiembroPorListaDeOrganizaciones(t *testing.T) {
	app := newRouterApp(t, fakePaymentProvider{})
	member := token(t, pkgjwt.Identity{UserID: testUserID, OrgID: "org_activa", OrgIDs: []string{testOrgID}})

	resp := doRequest(t, app, "/api/analytics/"+testOrgID+"/metrics", member)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "null", readBody(t, resp), "sin cálculo previo las métricas son null")
}

func postPortal(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/subscription/portal", nil)
	req.Header.Set("Authorization", token(t, pkgjwt.Identity{UserID: testUserID, OrgID: testOrgID, OrgRole: "org:detailer"}))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRouter_Portal_FalloDelProveedor_502ConURLNull(t *testing.T) {
	app := newRouterApp(t, fakePaymentProvider{portalErr: errors.New("stripe caído")})

	resp := postPortal(t, app)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.JSONEq(t, `{"url":null}`, readBody(t, resp))
}

func TestRouter_Portal_OK(t *testing.T) {
	app := newRouterApp(t, fakePaymentProvider{})

	resp := postPortal(t, app)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"url":"https://billing.example.com/p/1"}`, readBody(t, resp))
}
