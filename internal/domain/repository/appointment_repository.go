package repository

import (
	"context"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// AppointmentRepository citas. Create devuelve domain.ErrDuplicate si el assessment ya tiene cita.
type AppointmentRepository interface {
	Create(ctx context.Context, a *entity.Appointment) error
	GetByID(ctx context.Context, id string) (*entity.Appointment, error)
	GetByAssessmentID(ctx context.Context, assessmentID string) (*entity.Appointment, error)
	// ListByOrg devuelve todas las citas del tenant ordenadas por fecha ascendente.
	ListByOrg(ctx context.Context, orgID string) ([]*entity.Appointment, error)
	// ListUpcomingByOrg citas en estado booked, por fecha ascendente.
	ListUpcomingByOrg(ctx context.Context, orgID string) ([]*entity.Appointment, error)
	ListByClientEmail(ctx context.Context, email string) ([]*entity.Appointment, error)
	ListByClientName(ctx context.Context, name string) ([]*entity.Appointment, error)
	SetCalendarEventID(ctx context.Context, id, eventID string) error
}

// ReviewRepository reseñas. Create devuelve domain.ErrDuplicate si la cita ya tiene reseña.
type ReviewRepository interface {
	Create(ctx context.Context, r *entity.Review) error
	GetByAppointmentID(ctx context.Context, appointmentID string) (*entity.Review, error)
	ListByOrg(ctx context.Context, orgID string) ([]*entity.Review, error)
	// ListRecentByOrg las `limit` más recientes primero.
	ListRecentByOrg(ctx context.Context, orgID string, limit int) ([]*entity.Review, error)
}
