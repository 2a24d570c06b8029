package scheduling

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/slick-api/internal/application/jobs"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

// FollowUps handlers de las tareas que siguen a una reserva.
type FollowUps struct {
	appointments repository.AppointmentRepository
	assessments  repository.AssessmentRepository
	calendar     ports.CalendarService
	reminders    ports.ReminderSender
	log          zerolog.Logger
}

// NewFollowUps construye los handlers.
func NewFollowUps(
	appointments repository.AppointmentRepository,
	assessments repository.AssessmentRepository,
	calendar ports.CalendarService,
	reminders ports.ReminderSender,
	log zerolog.Logger,
) *FollowUps {
	return &FollowUps{
		appointments: appointments,
		assessments:  assessments,
		calendar:     calendar,
		reminders:    reminders,
		log:          log,
	}
}

// HandleCalendarTask crea el evento de calendario y guarda su ID en la cita.
func (f *FollowUps) HandleCalendarTask(ctx context.Context, task *entity.Task) error {
	p, err := jobs.Decode[jobs.AppointmentPayload](task)
	if err != nil {
		return err
	}
	appt, a, err := f.load(ctx, p.AppointmentID)
	if err != nil {
		return err
	}
	if appt.CalendarEventID != "" {
		return nil
	}
	eventID, err := f.calendar.CreateEvent(ctx, ports.CalendarEvent{
		AppointmentID:   appt.ID,
		ClientEmail:     a.ClientEmail,
		AppointmentTime: appt.AppointmentTime,
		Vehicle:         appt.VehicleDescription,
	})
	if err != nil {
		return fmt.Errorf("crear evento de calendario: %w", err)
	}
	if err := f.appointments.SetCalendarEventID(ctx, appt.ID, eventID); err != nil {
		return err
	}
	f.log.Info().Str("appointment_id", appt.ID).Str("event_id", eventID).Msg("evento de calendario creado")
	return nil
}

// HandleReminderTask envía el recordatorio si la cita sigue reservada.
func (f *FollowUps) HandleReminderTask(ctx context.Context, task *entity.Task) error {
	p, err := jobs.Decode[jobs.AppointmentPayload](task)
	if err != nil {
		return err
	}
	appt, a, err := f.load(ctx, p.AppointmentID)
	if err != nil {
		return err
	}
	if appt.Status != entity.AppointmentBooked {
		f.log.Info().Str("appointment_id", appt.ID).Str("status", appt.Status).Msg("cita no reservada; sin recordatorio")
		return nil
	}
	if a.ClientPhone == "" {
		f.log.Info().Str("appointment_id", appt.ID).Msg("cliente sin teléfono; sin recordatorio")
		return nil
	}
	return f.reminders.SendAppointmentReminder(ctx, ports.Reminder{
		AppointmentID: appt.ID,
		ClientName:    appt.ClientName,
		ClientPhone:   a.ClientPhone,
	})
}

func (f *FollowUps) load(ctx context.Context, appointmentID string) (*entity.Appointment, *entity.Assessment, error) {
	appt, err := f.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, nil, err
	}
	if appt == nil {
		return nil, nil, fmt.Errorf("cita %s: %w", appointmentID, domain.ErrNotFound)
	}
	a, err := f.assessments.GetByID(ctx, appt.AssessmentID)
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		return nil, nil, fmt.Errorf("assessment %s: %w", appt.AssessmentID, domain.ErrNotFound)
	}
	return appt, a, nil
}
