package estimate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/slick-api/internal/application/jobs"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
	"github.com/jhoicas/slick-api/pkg/logger"
)

// DefaultRateLimitedDelay espera antes de reintentar un trabajo frenado por el rate limit.
const DefaultRateLimitedDelay = 60 * time.Second

// defaultLLMTimeout aplica a cada intento de llamada al modelo.
const defaultLLMTimeout = 30 * time.Second

// Reintentos del LLM: 3 intentos; tras el intento i fallido se espera RetryDelay*i.
const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = time.Second
)

// WorkerConfig parámetros del worker; los ceros toman los valores por defecto.
type WorkerConfig struct {
	RetryAttempts    uint
	RetryDelay       time.Duration
	RateLimitedDelay time.Duration
	LLMTimeout       time.Duration
}

// Worker genera el presupuesto de un assessment (handler de estimate.generate).
type Worker struct {
	assessments repository.AssessmentRepository
	jobs        repository.EstimateJobRepository
	estimates   repository.EstimateRepository
	pricing     repository.PricingModelRepository
	tasks       repository.TaskRepository
	llm         ports.LLMService
	limiter     ports.RateLimiter
	cfg         WorkerConfig
	log         zerolog.Logger
	now         func() time.Time
}

// NewWorker construye el worker.
func NewWorker(
	assessments repository.AssessmentRepository,
	jobRepo repository.EstimateJobRepository,
	estimates repository.EstimateRepository,
	pricing repository.PricingModelRepository,
	tasks repository.TaskRepository,
	llm ports.LLMService,
	limiter ports.RateLimiter,
	cfg WorkerConfig,
	log zerolog.Logger,
) *Worker {
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = defaultRetryAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.RateLimitedDelay <= 0 {
		cfg.RateLimitedDelay = DefaultRateLimitedDelay
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = defaultLLMTimeout
	}
	return &Worker{
		assessments: assessments,
		jobs:        jobRepo,
		estimates:   estimates,
		pricing:     pricing,
		tasks:       tasks,
		llm:         llm,
		limiter:     limiter,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// HandleTask adapta Process al contrato de jobs.Handler.
func (w *Worker) HandleTask(ctx context.Context, task *entity.Task) error {
	p, err := jobs.Decode[jobs.AssessmentPayload](task)
	if err != nil {
		return err
	}
	return w.Process(ctx, p.AssessmentID)
}

// Process ejecuta el trabajo de presupuesto del assessment:
//
//  1. assessment y job deben existir;
//  2. job completed o presupuesto existente: no hace nada;
//  3. rate limit por tenant: si se excede, re-encola la tarea y el job sigue pending;
//  4. in_progress -> LLM con reintentos -> guardar presupuesto -> completed;
//  5. cualquier error desde el paso 4 deja el job en failed con el mensaje.
//
// Solo devuelve error cuando no puede ni registrar el fallo en el job.
func (w *Worker) Process(ctx context.Context, assessmentID string) error {
	log := w.log.With().Str("assessment_id", assessmentID).Logger()

	a, err := w.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		return fmt.Errorf("obtener assessment: %w", err)
	}
	if a == nil {
		return fmt.Errorf("assessment %s: %w", assessmentID, domain.ErrNotFound)
	}
	job, err := w.jobs.GetByAssessmentID(ctx, assessmentID)
	if err != nil {
		return fmt.Errorf("obtener estimate job: %w", err)
	}
	if job == nil {
		return fmt.Errorf("estimate job de %s: %w", assessmentID, domain.ErrNotFound)
	}
	log = logger.ForOrg(log, a.OrgID).With().Str("job_id", job.ID).Logger()

	if job.Status == entity.JobStatusCompleted {
		log.Debug().Msg("estimate job ya completado")
		return nil
	}
	existing, err := w.estimates.GetByAssessmentID(ctx, assessmentID)
	if err != nil {
		return fmt.Errorf("obtener estimate: %w", err)
	}
	if existing != nil {
		log.Info().Msg("presupuesto ya existe; se marca el job como completado")
		return w.jobs.UpdateStatus(ctx, job.ID, entity.JobStatusCompleted, "")
	}

	allowed, err := w.limiter.Allow(ctx, "estimate:"+a.OrgID)
	if err != nil {
		// Sin limitador disponible no se bloquea la generación.
		log.Warn().Err(err).Msg("rate limiter no disponible")
		allowed = true
	}
	if !allowed {
		return w.reschedule(ctx, log, assessmentID)
	}

	if err := w.jobs.UpdateStatus(ctx, job.ID, entity.JobStatusInProgress, ""); err != nil {
		return fmt.Errorf("marcar in_progress: %w", err)
	}

	if err := w.generate(ctx, a); err != nil {
		log.Error().Err(err).Msg("fallo generando presupuesto")
		if uErr := w.jobs.UpdateStatus(ctx, job.ID, entity.JobStatusFailed, err.Error()); uErr != nil {
			return fmt.Errorf("marcar failed: %w (causa: %v)", uErr, err)
		}
		return nil
	}

	if err := w.jobs.UpdateStatus(ctx, job.ID, entity.JobStatusCompleted, ""); err != nil {
		return fmt.Errorf("marcar completed: %w", err)
	}
	log.Info().Msg("presupuesto generado")
	return nil
}

func (w *Worker) reschedule(ctx context.Context, log zerolog.Logger, assessmentID string) error {
	runAt := w.now().Add(w.cfg.RateLimitedDelay)
	task, err := jobs.NewTask(entity.TaskEstimateGenerate, jobs.AssessmentPayload{AssessmentID: assessmentID}, runAt)
	if err != nil {
		return err
	}
	if err := w.tasks.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("re-encolar estimate: %w", err)
	}
	log.Warn().Time("run_at", runAt).Msg("rate limit excedido para el tenant; trabajo reprogramado")
	return nil
}

func (w *Worker) generate(ctx context.Context, a *entity.Assessment) error {
	model, err := w.pricing.GetByOrgID(ctx, a.OrgID)
	if err != nil {
		return fmt.Errorf("obtener pricing model: %w", err)
	}
	if model == nil {
		return fmt.Errorf("pricing model del tenant %s: %w", a.OrgID, domain.ErrNotFound)
	}

	in := ports.EstimateInput{
		VehicleYear:    a.VehicleYear,
		VehicleMake:    a.VehicleMake,
		VehicleModel:   a.VehicleModel,
		ConditionNotes: a.ConditionNotes,
		Services:       model.Services,
	}
	var draft *ports.EstimateDraft
	err = retry.Do(
		func() error {
			callCtx, cancel := context.WithTimeout(ctx, w.cfg.LLMTimeout)
			defer cancel()
			d, err := w.llm.GenerateEstimate(callCtx, in)
			if err != nil {
				return err
			}
			draft = d
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(w.cfg.RetryAttempts),
		retry.DelayType(w.linearDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			w.log.Warn().Err(err).Str("assessment_id", a.ID).Uint("attempt", n+1).
				Msg("llamada al LLM fallida; reintentando")
		}),
	)
	if err != nil {
		return fmt.Errorf("generar presupuesto con IA: %w", err)
	}
	if draft == nil || len(draft.Items) == 0 {
		return fmt.Errorf("respuesta del LLM sin partidas: %w", domain.ErrUpstream)
	}

	est := &entity.Estimate{
		ID:              uuid.New().String(),
		AssessmentID:    a.ID,
		Items:           draft.Items,
		Total:           draft.Total.Round(2),
		SuggestedAddons: draft.SuggestedAddons,
		CreatedAt:       w.now(),
	}
	if err := w.estimates.Create(ctx, est); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Otro worker lo guardó primero: el resultado es el mismo.
			return nil
		}
		return fmt.Errorf("guardar presupuesto: %w", err)
	}
	return nil
}

// linearDelay espera RetryDelay*(n+1) tras el intento n (0-based).
func (w *Worker) linearDelay(n uint, _ error, _ *retry.Config) time.Duration {
	return w.cfg.RetryDelay * time.Duration(n+1)
}
