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
	_ repository.AppointmentRepository = (*AppointmentRepo)(nil)
	_ repository.ReviewRepository      = (*ReviewRepo)(nil)
)

// ── Appointments ──

// AppointmentRepo implementación de AppointmentRepository.
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

const appointmentColumns = `id, assessment_id, org_id, client_name, client_email, vehicle_description,
	appointment_time, status, payment_id, price, calendar_event_id, created_at`

// Create persiste la cita. Devuelve domain.ErrDuplicate si el assessment ya tiene una.
func (r *AppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.AssessmentID, a.OrgID, a.ClientName, a.ClientEmail, a.VehicleDescription,
		a.AppointmentTime, a.Status, a.PaymentID, a.Price, a.CalendarEventID, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// GetByID obtiene una cita.
func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	return r.getOne(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
}

// GetByAssessmentID obtiene la cita del assessment.
func (r *AppointmentRepo) GetByAssessmentID(ctx context.Context, assessmentID string) (*entity.Appointment, error) {
	return r.getOne(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE assessment_id = $1`, assessmentID)
}

// ListByOrg todas las citas del tenant por fecha.
func (r *AppointmentRepo) ListByOrg(ctx context.Context, orgID string) ([]*entity.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments
		WHERE org_id = $1 ORDER BY appointment_time`, orgID)
}

// ListUpcomingByOrg citas reservadas del tenant por fecha.
func (r *AppointmentRepo) ListUpcomingByOrg(ctx context.Context, orgID string) ([]*entity.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments
		WHERE org_id = $1 AND status = 'booked' ORDER BY appointment_time`, orgID)
}

// ListByClientEmail historial del cliente (email sin distinguir mayúsculas).
func (r *AppointmentRepo) ListByClientEmail(ctx context.Context, email string) ([]*entity.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments
		WHERE lower(client_email) = lower($1) ORDER BY appointment_time DESC`, email)
}

// ListByClientName historial del cliente por nombre exacto.
func (r *AppointmentRepo) ListByClientName(ctx context.Context, name string) ([]*entity.Appointment, error) {
	return r.list(ctx, `SELECT `+appointmentColumns+` FROM appointments
		WHERE client_name = $1 ORDER BY appointment_time DESC`, name)
}

// SetCalendarEventID guarda el evento de calendario creado para la cita.
func (r *AppointmentRepo) SetCalendarEventID(ctx context.Context, id, eventID string) error {
	tag, err := r.q.Exec(ctx, `UPDATE appointments SET calendar_event_id = $2 WHERE id = $1`, id, eventID)
	if err != nil {
		return fmt.Errorf("set calendar event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepo) getOne(ctx context.Context, query string, arg string) (*entity.Appointment, error) {
	a, err := scanAppointment(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func (r *AppointmentRepo) list(ctx context.Context, query string, arg string) ([]*entity.Appointment, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var a entity.Appointment
	err := row.Scan(
		&a.ID, &a.AssessmentID, &a.OrgID, &a.ClientName, &a.ClientEmail, &a.VehicleDescription,
		&a.AppointmentTime, &a.Status, &a.PaymentID, &a.Price, &a.CalendarEventID, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ── Reviews ──

// ReviewRepo implementación de ReviewRepository.
type ReviewRepo struct {
	q Querier
}

// NewReviewRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReviewRepository(q Querier) *ReviewRepo {
	return &ReviewRepo{q: q}
}

const reviewColumns = `id, appointment_id, org_id, rating, comment, client_name, created_at`

// Create persiste la reseña. Devuelve domain.ErrDuplicate si la cita ya tiene una.
func (r *ReviewRepo) Create(ctx context.Context, rv *entity.Review) error {
	query := `INSERT INTO reviews (` + reviewColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		rv.ID, rv.AppointmentID, rv.OrgID, rv.Rating, rv.Comment, rv.ClientName, rv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// GetByAppointmentID obtiene la reseña de una cita.
func (r *ReviewRepo) GetByAppointmentID(ctx context.Context, appointmentID string) (*entity.Review, error) {
	var rv entity.Review
	err := r.q.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE appointment_id = $1`, appointmentID).Scan(
		&rv.ID, &rv.AppointmentID, &rv.OrgID, &rv.Rating, &rv.Comment, &rv.ClientName, &rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rv, nil
}

// ListByOrg todas las reseñas del tenant.
func (r *ReviewRepo) ListByOrg(ctx context.Context, orgID string) ([]*entity.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE org_id = $1 ORDER BY created_at DESC`, orgID)
}

// ListRecentByOrg las más recientes primero.
func (r *ReviewRepo) ListRecentByOrg(ctx context.Context, orgID string, limit int) ([]*entity.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2`,
		orgID, limit)
}

func (r *ReviewRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Review, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()
	var list []*entity.Review
	for rows.Next() {
		var rv entity.Review
		if err := rows.Scan(&rv.ID, &rv.AppointmentID, &rv.OrgID, &rv.Rating, &rv.Comment, &rv.ClientName, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		list = append(list, &rv)
	}
	return list, rows.Err()
}
