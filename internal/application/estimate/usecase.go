// Package estimate contiene el alta de assessments y la generación asíncrona del
// presupuesto con IA (rate limit por tenant, reintentos y estado idempotente del trabajo).
package estimate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/jobs"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
	"github.com/jhoicas/slick-api/internal/domain/vehicle"
)

// UseCase operaciones públicas sobre assessments y presupuestos.
type UseCase struct {
	tx          repository.TxRunner
	tenants     repository.TenantRepository
	assessments repository.AssessmentRepository
	jobs        repository.EstimateJobRepository
	estimates   repository.EstimateRepository
	pdf         ports.EstimatePDFGenerator
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx repository.TxRunner,
	tenants repository.TenantRepository,
	assessments repository.AssessmentRepository,
	jobRepo repository.EstimateJobRepository,
	estimates repository.EstimateRepository,
	pdf ports.EstimatePDFGenerator,
) *UseCase {
	return &UseCase{
		tx:          tx,
		tenants:     tenants,
		assessments: assessments,
		jobs:        jobRepo,
		estimates:   estimates,
		pdf:         pdf,
		now:         time.Now,
	}
}

// Submit valida y guarda el assessment, crea su EstimateJob en pending y encola la
// generación del presupuesto. Las tres escrituras van en la misma transacción.
func (uc *UseCase) Submit(ctx context.Context, in dto.SubmitAssessmentRequest) (*dto.SubmitAssessmentResponse, error) {
	now := uc.now()
	a, err := uc.buildAssessment(in, now)
	if err != nil {
		return nil, err
	}
	tenant, err := uc.tenants.GetByOrgID(ctx, a.OrgID)
	if err != nil {
		return nil, fmt.Errorf("buscar tenant: %w", err)
	}
	if tenant == nil {
		return nil, fmt.Errorf("tenant %s: %w", a.OrgID, domain.ErrNotFound)
	}

	job := &entity.EstimateJob{
		ID:           uuid.New().String(),
		AssessmentID: a.ID,
		Status:       entity.JobStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	task, err := jobs.NewTask(entity.TaskEstimateGenerate, jobs.AssessmentPayload{AssessmentID: a.ID}, now)
	if err != nil {
		return nil, err
	}

	err = uc.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		if err := repos.Assessments.Create(ctx, a); err != nil {
			return err
		}
		if err := repos.EstimateJobs.Create(ctx, job); err != nil {
			return err
		}
		return repos.Tasks.Enqueue(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("guardar assessment: %w", err)
	}
	return &dto.SubmitAssessmentResponse{AssessmentID: a.ID, JobStatus: job.Status}, nil
}

func (uc *UseCase) buildAssessment(in dto.SubmitAssessmentRequest, now time.Time) (*entity.Assessment, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	// El rango del año depende del reloj del caso de uso.
	if err := vehicle.ValidateYear(in.VehicleYear, now); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrInvalidInput)
	}
	orgID := strings.TrimSpace(in.OrgID)
	name := strings.TrimSpace(in.ClientName)
	email := strings.TrimSpace(in.ClientEmail)
	vehMake, vehModel := vehicle.NormalizeName(in.VehicleMake), vehicle.NormalizeName(in.VehicleModel)
	vin := vehicle.NormalizeVIN(in.VIN)
	return &entity.Assessment{
		ID:             uuid.New().String(),
		OrgID:          orgID,
		ClientName:     name,
		ClientEmail:    email,
		ClientPhone:    strings.TrimSpace(in.ClientPhone),
		VehicleYear:    strings.TrimSpace(in.VehicleYear),
		VehicleMake:    vehMake,
		VehicleModel:   vehModel,
		VIN:            vin,
		ConditionNotes: strings.TrimSpace(in.ConditionNotes),
		CreatedAt:      now,
	}, nil
}

// GetAssessment devuelve el assessment o domain.ErrNotFound.
func (uc *UseCase) GetAssessment(ctx context.Context, id string) (*dto.AssessmentResponse, error) {
	a, err := uc.assessments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener assessment: %w", err)
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.AssessmentResponse{
		ID:             a.ID,
		OrgID:          a.OrgID,
		ClientName:     a.ClientName,
		ClientEmail:    a.ClientEmail,
		ClientPhone:    a.ClientPhone,
		VehicleYear:    a.VehicleYear,
		VehicleMake:    a.VehicleMake,
		VehicleModel:   a.VehicleModel,
		VIN:            a.VIN,
		ConditionNotes: a.ConditionNotes,
		CreatedAt:      a.CreatedAt,
	}, nil
}

// GetEstimate devuelve el estado del trabajo y, si ya existe, el presupuesto.
// domain.ErrNotFound solo cuando el assessment no tiene trabajo ni presupuesto.
func (uc *UseCase) GetEstimate(ctx context.Context, assessmentID string) (*dto.EstimateResponse, error) {
	job, err := uc.jobs.GetByAssessmentID(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("obtener estimate job: %w", err)
	}
	est, err := uc.estimates.GetByAssessmentID(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("obtener estimate: %w", err)
	}
	if job == nil && est == nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.EstimateResponse{AssessmentID: assessmentID}
	if job != nil {
		out.JobStatus = job.Status
		out.JobError = job.LastError
	}
	if est != nil {
		if out.JobStatus == "" {
			out.JobStatus = entity.JobStatusCompleted
		}
		out.Estimate = toEstimateBody(est)
	}
	return out, nil
}

// EstimatePDF genera la cotización en PDF. domain.ErrNotFound si aún no hay presupuesto.
func (uc *UseCase) EstimatePDF(ctx context.Context, assessmentID string) ([]byte, string, error) {
	a, err := uc.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, "", fmt.Errorf("obtener assessment: %w", err)
	}
	if a == nil {
		return nil, "", domain.ErrNotFound
	}
	est, err := uc.estimates.GetByAssessmentID(ctx, assessmentID)
	if err != nil {
		return nil, "", fmt.Errorf("obtener estimate: %w", err)
	}
	if est == nil {
		return nil, "", domain.ErrNotFound
	}
	tenant, err := uc.tenants.GetByOrgID(ctx, a.OrgID)
	if err != nil {
		return nil, "", fmt.Errorf("obtener tenant: %w", err)
	}
	if tenant == nil {
		return nil, "", domain.ErrNotFound
	}
	pdf, err := uc.pdf.GenerateEstimatePDF(ctx, tenant, a, est)
	if err != nil {
		return nil, "", fmt.Errorf("generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("estimate-%s.pdf", a.ID), nil
}

func toEstimateBody(e *entity.Estimate) *dto.EstimateBodyDTO {
	body := &dto.EstimateBodyDTO{
		Items:           make([]dto.EstimateItemDTO, 0, len(e.Items)),
		Total:           e.Total,
		SuggestedAddons: make([]dto.SuggestedAddonDTO, 0, len(e.SuggestedAddons)),
	}
	for _, it := range e.Items {
		body.Items = append(body.Items, dto.EstimateItemDTO{Description: it.Description, Price: it.Price})
	}
	for _, ad := range e.SuggestedAddons {
		body.SuggestedAddons = append(body.SuggestedAddons, dto.SuggestedAddonDTO{
			Name: ad.Name, Description: ad.Description, Price: ad.Price,
		})
	}
	return body
}
