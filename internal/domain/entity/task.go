package entity

import (
	"encoding/json"
	"time"
)

// Tipos de tarea en segundo plano.
const (
	TaskEstimateGenerate    = "estimate.generate"
	TaskCalendarCreateEvent = "calendar.create_event"
	TaskReminderSend        = "reminder.send"
	TaskAnalyticsRecompute  = "analytics.recompute"
	TaskInsightGenerate     = "insight.generate"
)

// Estados de Task.
const (
	TaskPending = "pending"
	TaskRunning = "running"
	TaskDone    = "done"
	TaskFailed  = "failed"
)

// Task unidad de trabajo durable de la cola.
type Task struct {
	ID        string
	Kind      string
	Payload   json.RawMessage
	RunAt     time.Time
	Status    string
	Attempts  int
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}
