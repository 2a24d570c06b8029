// Package notify integraciones de notificación. Las implementaciones actuales
// simulan el calendario y el SMS: registran en el log y devuelven identificadores
// deterministas, de modo que el flujo completo funciona sin credenciales.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/slick-api/internal/application/ports"
)

var (
	_ ports.CalendarService = (*SimulatedCalendar)(nil)
	_ ports.ReminderSender  = (*SimulatedSMS)(nil)
)

// SimulatedCalendar crea eventos ficticios con id "gc_event_<uuid>".
type SimulatedCalendar struct {
	log zerolog.Logger
}

func NewSimulatedCalendar(log zerolog.Logger) *SimulatedCalendar {
	return &SimulatedCalendar{log: log}
}

func (c *SimulatedCalendar) CreateEvent(ctx context.Context, ev ports.CalendarEvent) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := "gc_event_" + uuid.NewString()
	c.log.Info().
		Str("appointment_id", ev.AppointmentID).
		Str("client_email", ev.ClientEmail).
		Str("vehicle", ev.Vehicle).
		Time("start", ev.AppointmentTime).
		Time("end", ev.AppointmentTime.Add(2*time.Hour)).
		Str("event_id", id).
		Msg("calendario: evento creado (simulado)")
	return id, nil
}

// SimulatedSMS registra el recordatorio en lugar de enviarlo.
type SimulatedSMS struct {
	log zerolog.Logger
}

func NewSimulatedSMS(log zerolog.Logger) *SimulatedSMS {
	return &SimulatedSMS{log: log}
}

// ReminderMessage texto del SMS de recordatorio.
func ReminderMessage(clientName string) string {
	return fmt.Sprintf("Hi %s, this is a reminder for your vehicle detailing appointment tomorrow.", clientName)
}

func (s *SimulatedSMS) SendAppointmentReminder(ctx context.Context, r ports.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.ClientPhone == "" {
		return fmt.Errorf("sms: cita %s sin teléfono", r.AppointmentID)
	}
	s.log.Info().
		Str("appointment_id", r.AppointmentID).
		Str("to", r.ClientPhone).
		Str("body", ReminderMessage(r.ClientName)).
		Msg("sms: recordatorio enviado (simulado)")
	return nil
}
