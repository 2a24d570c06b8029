// @title        Slick API
// @version      1.0
// @description  Backend multi-tenant para negocios de detailing: presupuestos con IA, reservas pagadas y analítica.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/slick-api/docs"
	appanalytics "github.com/jhoicas/slick-api/internal/application/analytics"
	"github.com/jhoicas/slick-api/internal/application/estimate"
	"github.com/jhoicas/slick-api/internal/application/jobs"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/application/scheduling"
	"github.com/jhoicas/slick-api/internal/application/usecase"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	infraai "github.com/jhoicas/slick-api/internal/infrastructure/ai"
	"github.com/jhoicas/slick-api/internal/infrastructure/catalog"
	"github.com/jhoicas/slick-api/internal/infrastructure/identity"
	"github.com/jhoicas/slick-api/internal/infrastructure/metrics"
	"github.com/jhoicas/slick-api/internal/infrastructure/notify"
	"github.com/jhoicas/slick-api/internal/infrastructure/payments"
	infrapdf "github.com/jhoicas/slick-api/internal/infrastructure/pdf"
	"github.com/jhoicas/slick-api/internal/infrastructure/postgres"
	"github.com/jhoicas/slick-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/slick-api/internal/infrastructure/report"
	httpRouter "github.com/jhoicas/slick-api/internal/interfaces/http"
	"github.com/jhoicas/slick-api/pkg/config"
	"github.com/jhoicas/slick-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	log.Info().Msg("iniciando aplicación")
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DB.RunMigrations {
		version, err := postgres.Migrate(cfg.DB.ConnectionString())
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Uint("version", version).Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.Worker.Count)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	tenantRepo := postgres.NewTenantRepository(pool)
	pricingRepo := postgres.NewPricingModelRepository(pool)
	availabilityRepo := postgres.NewAvailabilityRepository(pool)
	assessmentRepo := postgres.NewAssessmentRepository(pool)
	estimateRepo := postgres.NewEstimateRepository(pool)
	estimateJobRepo := postgres.NewEstimateJobRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	cacheRepo := postgres.NewAnalyticsCacheRepository(pool)
	insightRepo := postgres.NewInsightRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	defaultServices, err := catalog.DefaultServices()
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo por defecto")
	}

	m := metrics.New("slick")

	// Proveedor LLM: AI_PROVIDER=gemini (por defecto) o anthropic.
	var llm ports.LLMService
	switch cfg.AI.Provider {
	case "anthropic":
		llm = infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	default:
		llm = infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	}
	llm = m.InstrumentLLM(llm)

	// Rate limit compartido en Redis si hay REDIS_URL; si no, en memoria del proceso.
	var limiter ports.RateLimiter
	if cfg.Redis.URL != "" {
		rdb, err := ratelimit.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.Estimate.RateLimit, cfg.Estimate.RatePeriod)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.Estimate.RateLimit, cfg.Estimate.RatePeriod)
	}

	stripeGateway := payments.NewStripeGateway(cfg.Stripe.SecretKey, nil)
	stripeVerifier := payments.NewWebhookVerifier(cfg.Stripe.WebhookSecret)
	clerk := identity.NewClerkClient(cfg.Identity.APIURL, cfg.Identity.SecretKey)
	svixVerifier, err := identity.NewSvixVerifier(cfg.Identity.WebhookSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("verificador de webhooks de identidad")
	}

	userUC := usecase.NewUserUseCase(userRepo)
	tenantUC := usecase.NewTenantUseCase(txRunner, tenantRepo, clerk, defaultServices, nil, log.Component("tenant"))
	pricingUC := usecase.NewPricingUseCase(pricingRepo, availabilityRepo)
	reviewUC := usecase.NewReviewUseCase(reviewRepo, appointmentRepo)
	subscriptionUC := usecase.NewSubscriptionUseCase(subscriptionRepo, tenantRepo, stripeGateway, cfg.App.HostingURL, log.Component("subscription"))
	aiUC := usecase.NewAIUseCase(llm, pricingRepo, cacheRepo, insightRepo, log.Component("ai"))

	estimateUC := estimate.NewUseCase(txRunner, tenantRepo, assessmentRepo, estimateJobRepo, estimateRepo, infrapdf.NewMarotoPDFGenerator())
	estimateWorker := estimate.NewWorker(assessmentRepo, estimateJobRepo, estimateRepo, pricingRepo, taskRepo,
		llm, limiter, estimate.WorkerConfig{}, log.Component("estimate"))

	schedulingUC := scheduling.NewUseCase(txRunner, tenantRepo, assessmentRepo, estimateRepo, appointmentRepo,
		stripeGateway, cfg.App.HostingURL, log.Component("scheduling"))
	followUps := scheduling.NewFollowUps(appointmentRepo, assessmentRepo,
		notify.NewSimulatedCalendar(log.Component("calendar")), notify.NewSimulatedSMS(log.Component("sms")),
		log.Component("followups"))

	analyticsUC := appanalytics.NewUseCase(tenantRepo, appointmentRepo, reviewRepo, cacheRepo, taskRepo,
		[]ports.ReportRenderer{report.NewCSVRenderer(), report.NewXMLRenderer(), infrapdf.NewReportRenderer()},
		log.Component("analytics"))

	// Cola de tareas: un handler por tipo.
	runner := jobs.NewRunner(taskRepo, jobs.Options{
		Workers:      cfg.Worker.Count,
		PollInterval: cfg.Worker.PollInterval,
	}, m, log.Component("jobs"))
	runner.Register(entity.TaskEstimateGenerate, estimateWorker.HandleTask)
	runner.Register(entity.TaskCalendarCreateEvent, followUps.HandleCalendarTask)
	runner.Register(entity.TaskReminderSend, followUps.HandleReminderTask)
	runner.Register(entity.TaskAnalyticsRecompute, analyticsUC.HandleRecomputeTask)
	runner.Register(entity.TaskInsightGenerate, aiUC.HandleInsightTask)

	runnerDone := make(chan struct{})
	go func() {
		defer close(runnerDone)
		if err := runner.Run(ctx); err != nil {
			log.Error().Err(err).Msg("runner de tareas finalizado")
		}
	}()

	scheduler := jobs.NewScheduler(log.Component("cron"), 5*time.Minute)
	if err := scheduler.Add(cfg.Worker.AnalyticsCron, "analytics.schedule_all", func(ctx context.Context) error {
		_, err := analyticsUC.ScheduleAll(ctx)
		return err
	}); err != nil {
		log.Fatal().Err(err).Str("expr", cfg.Worker.AnalyticsCron).Msg("cron de analítica")
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Slick API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		UserUC:         userUC,
		TenantUC:       tenantUC,
		PricingUC:      pricingUC,
		ReviewUC:       reviewUC,
		SubscriptionUC: subscriptionUC,
		AIUC:           aiUC,
		EstimateUC:     estimateUC,
		SchedulingUC:   schedulingUC,
		AnalyticsUC:    analyticsUC,
		Webhooks: httpRouter.NewWebhookHandler(svixVerifier, stripeVerifier,
			userUC, schedulingUC, subscriptionUC, log.Component("webhooks")),
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	scheduler.Stop(shutdownCtx)
	select {
	case <-runnerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("runner de tareas no terminó a tiempo")
	}

	log.Info().Msg("aplicación detenida")
}
