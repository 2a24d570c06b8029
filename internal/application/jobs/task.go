// Package jobs implementa la cola durable de tareas en segundo plano y el cron
// que programa los recálculos periódicos.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// AssessmentPayload payload de estimate.generate.
type AssessmentPayload struct {
	AssessmentID string `json:"assessment_id"`
}

// AppointmentPayload payload de calendar.create_event y reminder.send.
type AppointmentPayload struct {
	AppointmentID string `json:"appointment_id"`
}

// OrgPayload payload de analytics.recompute e insight.generate.
type OrgPayload struct {
	OrgID string `json:"org_id"`
}

// NewTask construye una tarea pendiente lista para Enqueue.
func NewTask(kind string, payload any, runAt time.Time) (*entity.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("payload de %s: %w", kind, err)
	}
	now := time.Now()
	return &entity.Task{
		ID:        uuid.New().String(),
		Kind:      kind,
		Payload:   raw,
		RunAt:     runAt,
		Status:    entity.TaskPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Decode lee el payload de la tarea.
func Decode[T any](t *entity.Task) (T, error) {
	var v T
	if err := json.Unmarshal(t.Payload, &v); err != nil {
		return v, fmt.Errorf("payload inválido en tarea %s (%s): %w", t.ID, t.Kind, err)
	}
	return v, nil
}
