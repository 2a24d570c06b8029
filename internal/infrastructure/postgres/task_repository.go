package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo cola de tareas sobre la tabla tasks.
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

// Enqueue inserta la tarea en estado pending.
func (r *TaskRepo) Enqueue(ctx context.Context, t *entity.Task) error {
	payload := []byte(t.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	query := `
		INSERT INTO tasks (id, kind, payload, run_at, status, attempts, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, '', $6, $6)`
	if _, err := r.q.Exec(ctx, query, t.ID, t.Kind, payload, t.RunAt, entity.TaskPending, t.CreatedAt); err != nil {
		return fmt.Errorf("enqueue task %s: %w", t.Kind, err)
	}
	return nil
}

// ClaimDue reclama tareas vencidas. SKIP LOCKED evita que dos workers tomen la misma fila.
func (r *TaskRepo) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entity.Task, error) {
	query := `
		UPDATE tasks SET status = 'running', attempts = attempts + 1, updated_at = now()
		WHERE id IN (
			SELECT id FROM tasks
			WHERE status = 'pending' AND run_at <= $1
			ORDER BY run_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, payload, run_at, status, attempts, last_error, created_at, updated_at`
	rows, err := r.q.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("claim tasks: %w", err)
	}
	defer rows.Close()
	var list []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// MarkDone cierra la tarea con éxito.
func (r *TaskRepo) MarkDone(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE tasks SET status = 'done', last_error = '', updated_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark task done: %w", err)
	}
	return nil
}

// MarkFailed cierra la tarea con error.
func (r *TaskRepo) MarkFailed(ctx context.Context, id, errMsg string) error {
	if _, err := r.q.Exec(ctx, `UPDATE tasks SET status = 'failed', last_error = $2, updated_at = now() WHERE id = $1`, id, errMsg); err != nil {
		return fmt.Errorf("mark task failed: %w", err)
	}
	return nil
}

// RequeueStale devuelve a pending las tareas running abandonadas (proceso caído a mitad).
func (r *TaskRepo) RequeueStale(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE tasks SET status = 'pending', updated_at = now() WHERE status = 'running' AND updated_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("requeue stale tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var (
		t       entity.Task
		payload []byte
	)
	if err := row.Scan(&t.ID, &t.Kind, &payload, &t.RunAt, &t.Status, &t.Attempts, &t.LastError, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Payload = payload
	return &t, nil
}
