package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

var (
	_ repository.AssessmentRepository  = (*AssessmentRepo)(nil)
	_ repository.EstimateRepository    = (*EstimateRepo)(nil)
	_ repository.EstimateJobRepository = (*EstimateJobRepo)(nil)
)

// ── Assessments ──

// AssessmentRepo implementación de AssessmentRepository.
type AssessmentRepo struct {
	q Querier
}

// NewAssessmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAssessmentRepository(q Querier) *AssessmentRepo {
	return &AssessmentRepo{q: q}
}

// Create persiste el assessment.
func (r *AssessmentRepo) Create(ctx context.Context, a *entity.Assessment) error {
	query := `
		INSERT INTO assessments (id, org_id, client_name, client_email, client_phone,
			vehicle_year, vehicle_make, vehicle_model, vin, condition_notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.OrgID, a.ClientName, a.ClientEmail, a.ClientPhone,
		a.VehicleYear, a.VehicleMake, a.VehicleModel, a.VIN, a.ConditionNotes, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// GetByID obtiene un assessment.
func (r *AssessmentRepo) GetByID(ctx context.Context, id string) (*entity.Assessment, error) {
	query := `
		SELECT id, org_id, client_name, client_email, client_phone,
			vehicle_year, vehicle_make, vehicle_model, vin, condition_notes, created_at
		FROM assessments WHERE id = $1`
	var a entity.Assessment
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.OrgID, &a.ClientName, &a.ClientEmail, &a.ClientPhone,
		&a.VehicleYear, &a.VehicleMake, &a.VehicleModel, &a.VIN, &a.ConditionNotes, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	return &a, nil
}

// ── Estimates ──

// EstimateRepo implementación de EstimateRepository; items y addons en JSONB.
type EstimateRepo struct {
	q Querier
}

// NewEstimateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEstimateRepository(q Querier) *EstimateRepo {
	return &EstimateRepo{q: q}
}

// Create persiste el presupuesto. Devuelve domain.ErrDuplicate si el assessment ya tiene uno.
func (r *EstimateRepo) Create(ctx context.Context, e *entity.Estimate) error {
	items, err := toJSONB(e.Items)
	if err != nil {
		return err
	}
	addons, err := toJSONB(e.SuggestedAddons)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO estimates (id, assessment_id, items, total, suggested_addons, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, e.ID, e.AssessmentID, items, e.Total, addons, e.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert estimate: %w", err)
	}
	return nil
}

// GetByAssessmentID obtiene el presupuesto del assessment.
func (r *EstimateRepo) GetByAssessmentID(ctx context.Context, assessmentID string) (*entity.Estimate, error) {
	query := `
		SELECT id, assessment_id, items, total, suggested_addons, created_at
		FROM estimates WHERE assessment_id = $1`
	var (
		e               entity.Estimate
		items, addonRaw []byte
	)
	err := r.q.QueryRow(ctx, query, assessmentID).Scan(&e.ID, &e.AssessmentID, &items, &e.Total, &addonRaw, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get estimate: %w", err)
	}
	if err := fromJSONB(items, &e.Items); err != nil {
		return nil, err
	}
	if err := fromJSONB(addonRaw, &e.SuggestedAddons); err != nil {
		return nil, err
	}
	return &e, nil
}

// ── Estimate jobs ──

// EstimateJobRepo implementación de EstimateJobRepository.
type EstimateJobRepo struct {
	q Querier
}

// NewEstimateJobRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEstimateJobRepository(q Querier) *EstimateJobRepo {
	return &EstimateJobRepo{q: q}
}

// Create persiste el trabajo. Devuelve domain.ErrDuplicate si el assessment ya tiene uno.
func (r *EstimateJobRepo) Create(ctx context.Context, j *entity.EstimateJob) error {
	query := `
		INSERT INTO estimate_jobs (id, assessment_id, status, attempts, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, j.ID, j.AssessmentID, j.Status, j.Attempts, j.LastError, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert estimate job: %w", err)
	}
	return nil
}

// GetByAssessmentID obtiene el trabajo del assessment.
func (r *EstimateJobRepo) GetByAssessmentID(ctx context.Context, assessmentID string) (*entity.EstimateJob, error) {
	query := `
		SELECT id, assessment_id, status, attempts, last_error, created_at, updated_at
		FROM estimate_jobs WHERE assessment_id = $1`
	var j entity.EstimateJob
	err := r.q.QueryRow(ctx, query, assessmentID).Scan(
		&j.ID, &j.AssessmentID, &j.Status, &j.Attempts, &j.LastError, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get estimate job: %w", err)
	}
	return &j, nil
}

// UpdateStatus fija el estado y el último error; suma un intento al pasar a in_progress.
func (r *EstimateJobRepo) UpdateStatus(ctx context.Context, jobID, status, errMsg string) error {
	query := `
		UPDATE estimate_jobs
		SET status = $2::text,
		    last_error = $3,
		    attempts = attempts + CASE WHEN $2::text = 'in_progress' THEN 1 ELSE 0 END,
		    updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, jobID, status, errMsg)
	if err != nil {
		return fmt.Errorf("update estimate job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
