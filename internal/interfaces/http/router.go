package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/slick-api/internal/application/analytics"
	"github.com/jhoicas/slick-api/internal/application/estimate"
	"github.com/jhoicas/slick-api/internal/application/scheduling"
	"github.com/jhoicas/slick-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UserUC         *usecase.UserUseCase
	TenantUC       *usecase.TenantUseCase
	PricingUC      *usecase.PricingUseCase
	ReviewUC       *usecase.ReviewUseCase
	SubscriptionUC *usecase.SubscriptionUseCase
	AIUC           *usecase.AIUseCase
	EstimateUC     *estimate.UseCase
	SchedulingUC   *scheduling.UseCase
	AnalyticsUC    *appanalytics.UseCase
	Webhooks       *WebhookHandler
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Webhooks (firma verificada en el handler)
	hooks := app.Group("/webhooks")
	hooks.Post("/identity", deps.Webhooks.Identity)
	hooks.Post("/stripe", deps.Webhooks.Stripe)

	api := app.Group("/api")
	auth := AuthMiddleware(deps.JWTSecret)
	activeOrg := RequireActiveOrg()

	userHandler := NewUserHandler(deps.UserUC)
	tenantHandler := NewTenantHandler(deps.TenantUC)
	pricingHandler := NewPricingHandler(deps.PricingUC)
	assessmentHandler := NewAssessmentHandler(deps.EstimateUC)
	schedulingHandler := NewSchedulingHandler(deps.SchedulingUC)
	reviewHandler := NewReviewHandler(deps.ReviewUC)
	subscriptionHandler := NewSubscriptionHandler(deps.SubscriptionUC)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	aiHandler := NewAIHandler(deps.AIUC)

	// Públicas: página de assessment, checkout, reseñas y concierge
	api.Post("/assessments", assessmentHandler.Submit)
	api.Get("/assessments/:id", assessmentHandler.Get)
	api.Get("/assessments/:id/estimate", assessmentHandler.GetEstimate)
	api.Get("/assessments/:id/estimate.pdf", assessmentHandler.EstimatePDF)
	api.Get("/assessments/:id/appointment", schedulingHandler.GetByAssessment)
	api.Post("/checkout", schedulingHandler.CreateCheckout)
	api.Post("/reviews", reviewHandler.Submit)
	api.Get("/tenants/:orgId", tenantHandler.GetPublic)
	api.Get("/tenants/:orgId/slots", pricingHandler.GetSlots)
	api.Post("/tenants/:orgId/concierge", aiHandler.AskConcierge)

	// Autenticadas; las que reciben :orgId comprueban la pertenencia en el handler
	api.Get("/me", auth, userHandler.Me)
	api.Get("/appointments/mine", auth, schedulingHandler.ListMine)
	api.Get("/tenants/:orgId/appointments", auth, schedulingHandler.ListUpcoming)
	api.Get("/tenants/:orgId/reviews", auth, reviewHandler.ListRecent)
	api.Get("/tenants/:orgId/subscription", auth, subscriptionHandler.Get)
	api.Get("/tenants/:orgId/insight", auth, aiHandler.LatestInsight)

	analytics := api.Group("/analytics/:orgId", auth)
	analytics.Get("/metrics", analyticsHandler.Metrics)
	analytics.Get("/forecast", analyticsHandler.Forecast)
	analytics.Get("/report", analyticsHandler.Report)

	// Organización activa (tablero del detailer)
	api.Get("/tenant", auth, activeOrg, tenantHandler.GetMine)
	api.Put("/tenant/theme", auth, activeOrg, tenantHandler.UpdateTheme)
	api.Get("/pricing", auth, activeOrg, pricingHandler.Get)
	api.Put("/pricing/services", auth, activeOrg, pricingHandler.UpdateServicePrice)
	api.Put("/slots", auth, activeOrg, pricingHandler.ReplaceSlots)
	api.Post("/subscription/portal", auth, activeOrg, subscriptionHandler.CreatePortalSession)

	// Administración de la plataforma
	admin := api.Group("/admin", auth, RequireAdmin(deps.UserUC))
	admin.Get("/tenants", tenantHandler.List)
	admin.Post("/tenants", tenantHandler.Create)
}
