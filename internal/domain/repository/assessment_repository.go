package repository

import (
	"context"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// AssessmentRepository persistencia de assessments.
type AssessmentRepository interface {
	Create(ctx context.Context, a *entity.Assessment) error
	GetByID(ctx context.Context, id string) (*entity.Assessment, error)
}

// EstimateRepository presupuestos (uno por assessment).
// Create devuelve domain.ErrDuplicate si ya existe uno para el assessment.
type EstimateRepository interface {
	Create(ctx context.Context, e *entity.Estimate) error
	GetByAssessmentID(ctx context.Context, assessmentID string) (*entity.Estimate, error)
}

// EstimateJobRepository estado del trabajo de generación (uno por assessment).
type EstimateJobRepository interface {
	Create(ctx context.Context, job *entity.EstimateJob) error
	GetByAssessmentID(ctx context.Context, assessmentID string) (*entity.EstimateJob, error)
	// UpdateStatus fija el estado; errMsg vacío limpia last_error. Incrementa attempts al pasar a in_progress.
	UpdateStatus(ctx context.Context, jobID, status, errMsg string) error
}
