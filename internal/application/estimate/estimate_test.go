package estimate_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/estimate"
	"github.com/jhoicas/slick-api/internal/application/jobs"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeLLM struct {
	mu       sync.Mutex
	calls    int
	failures int // primeras llamadas que fallan
	draft    *ports.EstimateDraft
	lastIn   ports.EstimateInput
}

func (f *fakeLLM) GenerateEstimate(_ context.Context, in ports.EstimateInput) (*ports.EstimateDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastIn = in
	if f.calls <= f.failures {
		return nil, errors.New("modelo sobrecargado")
	}
	return f.draft, nil
}

func (f *fakeLLM) AnswerQuestion(context.Context, []entity.Service, string) (string, error) {
	return "", nil
}

func (f *fakeLLM) GenerateInsight(context.Context, ports.InsightInput) (string, error) {
	return "", nil
}

type fakeLimiter struct {
	allow bool
	err   error
}

func (f fakeLimiter) Allow(context.Context, string) (bool, error) { return f.allow, f.err }

type fakePDF struct{}

func (fakePDF) GenerateEstimatePDF(_ context.Context, t *entity.Tenant, a *entity.Assessment, e *entity.Estimate) ([]byte, error) {
	return []byte("%PDF-" + t.Name + "-" + a.ID + "-" + e.Total.StringFixed(2)), nil
}

const orgID = "org_demo"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func defaultDraft() *ports.EstimateDraft {
	return &ports.EstimateDraft{
		Items: []entity.EstimateItem{
			{Description: "Full Interior Detail", Price: dec("180")},
			{Description: "Pet hair removal", Price: dec("45.555")},
		},
		Total:           dec("225.555"),
		SuggestedAddons: []entity.SuggestedAddon{{Name: "Ceramic Coating", Price: dec("300")}},
	}
}

func seedTenant(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Tenants().Create(ctx, &entity.Tenant{ID: "t1", Name: "Shine Co", OrgID: orgID, CreatedAt: time.Now()}))
	require.NoError(t, store.Pricing().Create(ctx, &entity.PricingModel{ID: "p1", OrgID: orgID, Services: []entity.Service{
		{Name: "Full Interior Detail", BasePrice: dec("150")},
	}}))
}

func validRequest() dto.SubmitAssessmentRequest {
	return dto.SubmitAssessmentRequest{
		OrgID:          orgID,
		ClientName:     "Ana Pérez",
		ClientEmail:    "ana@example.com",
		ClientPhone:    "+15550001",
		VehicleYear:    "2020",
		VehicleMake:    "toyota",
		VehicleModel:   "camry",
		VIN:            "1hgcm82633a-004352",
		ConditionNotes: "pelo de perro en los asientos",
	}
}

type env struct {
	store  *memory.Store
	uc     *estimate.UseCase
	worker *estimate.Worker
	llm    *fakeLLM
}

func newEnv(t *testing.T, limiter ports.RateLimiter) *env {
	t.Helper()
	store := memory.NewStore()
	seedTenant(t, store)
	llm := &fakeLLM{draft: defaultDraft()}
	return &env{
		store: store,
		uc:    estimate.NewUseCase(store, store.Tenants(), store.Assessments(), store.EstimateJobs(), store.Estimates(), fakePDF{}),
		worker: estimate.NewWorker(store.Assessments(), store.EstimateJobs(), store.Estimates(), store.Pricing(), store.Tasks(),
			llm, limiter, estimate.WorkerConfig{
				RetryAttempts:    3,
				RetryDelay:       time.Millisecond,
				RateLimitedDelay: time.Minute,
			}, zerolog.Nop()),
		llm: llm,
	}
}

func (e *env) submit(t *testing.T) string {
	t.Helper()
	resp, err := e.uc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	return resp.AssessmentID
}

// ──────────────────────────────────────────────────────────────────────────────
// Submit / consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_GuardaAssessmentJobYTarea(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})

	resp, err := e.uc.Submit(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusPending, resp.JobStatus)

	a, err := e.store.Assessments().GetByID(context.Background(), resp.AssessmentID)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Toyota", a.VehicleMake, "marca normalizada")
	assert.Equal(t, "1HGCM82633A004352", a.VIN, "VIN normalizado")

	tasks := e.store.Tasks().All()
	require.Len(t, tasks, 1)
	assert.Equal(t, entity.TaskEstimateGenerate, tasks[0].Kind)
	p, err := jobs.Decode[jobs.AssessmentPayload](&tasks[0])
	require.NoError(t, err)
	assert.Equal(t, resp.AssessmentID, p.AssessmentID)
}

func TestSubmit_TenantInexistente_NoEscribeNada(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})
	req := validRequest()
	req.OrgID = "org_otro"

	_, err := e.uc.Submit(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, e.store.Tasks().All())
}

func TestSubmit_DatosInvalidos(t *testing.T) {
	cases := map[string]func(*dto.SubmitAssessmentRequest){
		"email":  func(r *dto.SubmitAssessmentRequest) { r.ClientEmail = "no-es-email" },
		"nombre": func(r *dto.SubmitAssessmentRequest) { r.ClientName = "  " },
		"año":    func(r *dto.SubmitAssessmentRequest) { r.VehicleYear = "1850" },
		"vin":    func(r *dto.SubmitAssessmentRequest) { r.VIN = "123" },
		"marca":  func(r *dto.SubmitAssessmentRequest) { r.VehicleMake = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t, fakeLimiter{allow: true})
			req := validRequest()
			mutate(&req)

			_, err := e.uc.Submit(context.Background(), req)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestGetEstimate_SinAssessment_NotFound(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})

	_, err := e.uc.GetEstimate(context.Background(), "no-existe")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetEstimate_PendienteSinPresupuesto(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})
	id := e.submit(t)

	resp, err := e.uc.GetEstimate(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusPending, resp.JobStatus)
	assert.Nil(t, resp.Estimate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Worker
// ──────────────────────────────────────────────────────────────────────────────

func TestWorker_GeneraPresupuestoYCompletaJob(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})
	id := e.submit(t)

	require.NoError(t, e.worker.Process(context.Background(), id))

	resp, err := e.uc.GetEstimate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusCompleted, resp.JobStatus)
	require.NotNil(t, resp.Estimate)
	assert.Equal(t, "225.56", resp.Estimate.Total.StringFixed(2), "total redondeado a centavos")
	assert.Len(t, resp.Estimate.Items, 2)
	assert.Len(t, resp.Estimate.SuggestedAddons, 1)

	assert.Equal(t, "Toyota", e.llm.lastIn.VehicleMake)
	assert.Equal(t, "Full Interior Detail", e.llm.lastIn.Services[0].Name)

	job, _ := e.store.EstimateJobs().GetByAssessmentID(context.Background(), id)
	assert.Equal(t, 1, job.Attempts)
}

func TestWorker_RateLimit_ReprogramaYMantienePending(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: false})
	id := e.submit(t)
	before := time.Now()

	require.NoError(t, e.worker.Process(context.Background(), id))

	assert.Zero(t, e.llm.calls)
	job, _ := e.store.EstimateJobs().GetByAssessmentID(context.Background(), id)
	assert.Equal(t, entity.JobStatusPending, job.Status)

	tasks := e.store.Tasks().All()
	require.Len(t, tasks, 2, "la tarea original más la reprogramada")
	assert.True(t, tasks[1].RunAt.After(before.Add(59*time.Second)), "se reprograma tras la espera configurada")
}

func TestWorker_LimiterCaido_NoBloquea(t *testing.T) {
	e := newEnv(t, fakeLimiter{err: errors.New("redis caído")})
	id := e.submit(t)

	require.NoError(t, e.worker.Process(context.Background(), id))

	job, _ := e.store.EstimateJobs().GetByAssessmentID(context.Background(), id)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
}

func TestWorker_FalloTransitorio_Reintenta(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})
	e.llm.failures = 2
	id := e.submit(t)

	require.NoError(t, e.worker.Process(context.Background(), id))

	assert.Equal(t, 3, e.llm.calls)
	job, _ := e.store.EstimateJobs().GetByAssessmentID(context.Background(), id)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
}

func TestWorker_AgotaReintentos_JobFailed(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})
	e.llm.failures = 10
	id := e.submit(t)

	require.NoError(t, e.worker.Process(context.Background(), id))

	assert.Equal(t, 3, e.llm.calls)
	resp, err := e.uc.GetEstimate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.JobStatusFailed, resp.JobStatus)
	assert.Contains(t, resp.JobError, "modelo sobrecargado")
	assert.Nil(t, resp.Estimate)
}

func TestWorker_RespuestaSinPartidas_JobFailed(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})
	e.llm.draft = &ports.EstimateDraft{}
	id := e.submit(t)

	require.NoError(t, e.worker.Process(context.Background(), id))

	job, _ := e.store.EstimateJobs().GetByAssessmentID(context.Background(), id)
	assert.Equal(t, entity.JobStatusFailed, job.Status)
}

func TestWorker_JobCompletado_NoLlamaAlModelo(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})
	id := e.submit(t)
	require.NoError(t, e.worker.Process(context.Background(), id))

	require.NoError(t, e.worker.Process(context.Background(), id))

	assert.Equal(t, 1, e.llm.calls, "la segunda entrega no vuelve a generar")
}

func TestWorker_PresupuestoExistente_CompletaSinLlamar(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})
	id := e.submit(t)
	require.NoError(t, e.store.Estimates().Create(context.Background(), &entity.Estimate{
		ID: "e1", AssessmentID: id, Items: []entity.EstimateItem{{Description: "x", Price: dec("10")}}, Total: dec("10"),
	}))

	require.NoError(t, e.worker.Process(context.Background(), id))

	assert.Zero(t, e.llm.calls)
	job, _ := e.store.EstimateJobs().GetByAssessmentID(context.Background(), id)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
}

func TestWorker_HandleTask_DecodificaPayload(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})
	id := e.submit(t)
	task := e.store.Tasks().All()[0]

	require.NoError(t, e.worker.HandleTask(context.Background(), &task))

	job, _ := e.store.EstimateJobs().GetByAssessmentID(context.Background(), id)
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
}

func TestWorker_AssessmentInexistente(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})

	err := e.worker.Process(context.Background(), "no-existe")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestEstimatePDF_SinPresupuesto_NotFound(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})
	id := e.submit(t)

	_, _, err := e.uc.EstimatePDF(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEstimatePDF_ConPresupuesto(t *testing.T) {
	e := newEnv(t, fakeLimiter{allow: true})
	id := e.submit(t)
	require.NoError(t, e.worker.Process(context.Background(), id))

	body, filename, err := e.uc.EstimatePDF(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, "estimate-"+id+".pdf", filename)
	assert.Equal(t, "%PDF-Shine Co-"+id+"-225.56", string(body))
}
