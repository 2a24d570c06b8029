package repository

import (
	"context"
	"time"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// TaskRepository cola durable de tareas en segundo plano.
type TaskRepository interface {
	Enqueue(ctx context.Context, task *entity.Task) error
	// ClaimDue toma hasta `limit` tareas pendientes con run_at <= now y las marca running.
	// Tareas reclamadas por otro worker no se devuelven.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entity.Task, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, errMsg string) error
	// RequeueStale devuelve a pending las tareas running desde antes de `olderThan`.
	RequeueStale(ctx context.Context, olderThan time.Time) (int64, error)
}

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Tenants       TenantRepository
	Pricing       PricingModelRepository
	Availability  AvailabilityRepository
	Subscriptions SubscriptionRepository
	Assessments   AssessmentRepository
	EstimateJobs  EstimateJobRepository
	Appointments  AppointmentRepository
	Tasks         TaskRepository
}

// TxRunner ejecuta fn dentro de una transacción; Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(repos TxRepos) error) error
}
