package ports

import (
	"context"
	"time"
)

// CalendarEvent evento de calendario para una cita nueva.
type CalendarEvent struct {
	AppointmentID   string
	ClientEmail     string
	AppointmentTime time.Time
	Vehicle         string
}

// CalendarService crea eventos en el calendario del detailer.
type CalendarService interface {
	CreateEvent(ctx context.Context, ev CalendarEvent) (string, error)
}

// Reminder recordatorio de cita para el cliente.
type Reminder struct {
	AppointmentID string
	ClientName    string
	ClientPhone   string
}

// ReminderSender envía el recordatorio (SMS).
type ReminderSender interface {
	SendAppointmentReminder(ctx context.Context, r Reminder) error
}
