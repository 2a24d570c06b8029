package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
	"github.com/jhoicas/slick-api/pkg/logger"
)

// Handler procesa una tarea. Un error marca la tarea como failed (no se reintenta).
type Handler func(ctx context.Context, task *entity.Task) error

// Observer recibe el resultado de cada tarea (métricas). Puede ser nil.
type Observer interface {
	TaskProcessed(kind, outcome string, elapsed time.Duration)
}

// Resultados reportados al Observer.
const (
	OutcomeDone    = "done"
	OutcomeFailed  = "failed"
	OutcomeUnknown = "unknown_kind"
)

// markTimeout plazo para registrar el resultado de una tarea, independiente del handler.
const markTimeout = 5 * time.Second

// ErrUnknownKind tarea sin handler registrado.
var ErrUnknownKind = errors.New("tipo de tarea sin handler")

// Options configuración del Runner.
type Options struct {
	Workers      int
	PollInterval time.Duration
	TaskTimeout  time.Duration
	// StaleAfter tiempo tras el cual una tarea running se considera abandonada.
	// Se revisa cada StaleAfter/2 mientras el runner está activo.
	StaleAfter time.Duration
}

// Runner reclama tareas vencidas y las reparte entre N workers.
type Runner struct {
	tasks    repository.TaskRepository
	handlers map[string]Handler
	opts     Options
	observer Observer
	log      zerolog.Logger
	now      func() time.Time
}

// NewRunner construye el runner. Los handlers se registran con Register antes de Run.
func NewRunner(tasks repository.TaskRepository, opts Options, observer Observer, log zerolog.Logger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = 2 * time.Minute
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 10 * time.Minute
	}
	return &Runner{
		tasks:    tasks,
		handlers: make(map[string]Handler),
		opts:     opts,
		observer: observer,
		log:      log,
		now:      time.Now,
	}
}

// Register asocia un handler a un tipo de tarea.
func (r *Runner) Register(kind string, h Handler) {
	r.handlers[kind] = h
}

// Run procesa tareas hasta que ctx se cancele. Las tareas en curso terminan antes de volver.
func (r *Runner) Run(ctx context.Context) error {
	staleEvery := r.opts.StaleAfter / 2
	if staleEvery < r.opts.PollInterval {
		staleEvery = r.opts.PollInterval
	}
	r.requeueStale(ctx)
	lastRequeue := r.now()

	queue := make(chan *entity.Task)
	var wg sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range queue {
				r.process(ctx, t)
			}
		}()
	}

	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()
	r.log.Info().Int("workers", r.opts.Workers).Dur("poll", r.opts.PollInterval).Msg("task runner iniciado")

loop:
	for {
		if r.now().Sub(lastRequeue) >= staleEvery {
			r.requeueStale(ctx)
			lastRequeue = r.now()
		}
		claimed, err := r.tasks.ClaimDue(ctx, r.now(), r.opts.Workers)
		if err != nil && ctx.Err() == nil {
			r.log.Error().Err(err).Msg("reclamar tareas")
		}
		for _, t := range claimed {
			queue <- t
		}
		if len(claimed) == r.opts.Workers {
			// Puede haber más tareas vencidas: volver a reclamar sin esperar.
			if ctx.Err() != nil {
				break loop
			}
			continue
		}
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
	}

	close(queue)
	wg.Wait()
	r.log.Info().Msg("task runner detenido")
	return nil
}

// requeueStale devuelve a pending las tareas running de workers caídos.
func (r *Runner) requeueStale(ctx context.Context) {
	n, err := r.tasks.RequeueStale(ctx, r.now().Add(-r.opts.StaleAfter))
	if err != nil {
		if ctx.Err() == nil {
			r.log.Warn().Err(err).Msg("no se pudieron recuperar tareas abandonadas")
		}
		return
	}
	if n > 0 {
		r.log.Info().Int64("count", n).Msg("tareas abandonadas devueltas a pending")
	}
}

// RunOnce reclama y procesa en serie las tareas vencidas. Devuelve cuántas procesó.
func (r *Runner) RunOnce(ctx context.Context) (int, error) {
	claimed, err := r.tasks.ClaimDue(ctx, r.now(), r.opts.Workers)
	if err != nil {
		return 0, err
	}
	for _, t := range claimed {
		r.process(ctx, t)
	}
	return len(claimed), nil
}

func (r *Runner) process(parent context.Context, t *entity.Task) {
	start := r.now()
	log := logger.ForTask(r.log, t.Kind, t.ID, t.Attempts)

	// La tarea ya reclamada termina aunque el proceso se esté apagando.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), r.opts.TaskTimeout)
	defer cancel()

	// El resultado se registra aunque el handler haya agotado su plazo.
	markCtx, markCancel := context.WithTimeout(context.WithoutCancel(parent), markTimeout)
	defer markCancel()

	h, ok := r.handlers[t.Kind]
	if !ok {
		r.fail(markCtx, log, t, fmt.Errorf("%w: %s", ErrUnknownKind, t.Kind), OutcomeUnknown, start)
		return
	}

	if err := r.safeCall(ctx, h, t); err != nil {
		r.fail(markCtx, log, t, err, OutcomeFailed, start)
		return
	}
	if err := r.tasks.MarkDone(markCtx, t.ID); err != nil {
		log.Error().Err(err).Msg("marcar tarea como done")
	}
	r.observe(t.Kind, OutcomeDone, start)
	log.Debug().Dur("elapsed", r.now().Sub(start)).Msg("tarea completada")
}

func (r *Runner) fail(ctx context.Context, log zerolog.Logger, t *entity.Task, err error, outcome string, start time.Time) {
	log.Error().Err(err).Msg("tarea fallida")
	if mErr := r.tasks.MarkFailed(ctx, t.ID, err.Error()); mErr != nil {
		log.Error().Err(mErr).Msg("marcar tarea como failed")
	}
	r.observe(t.Kind, outcome, start)
}

// safeCall convierte un panic del handler en error para no tumbar el worker.
func (r *Runner) safeCall(ctx context.Context, h Handler, t *entity.Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic en handler: %v", rec)
		}
	}()
	return h(ctx, t)
}

func (r *Runner) observe(kind, outcome string, start time.Time) {
	if r.observer != nil {
		r.observer.TaskProcessed(kind, outcome, r.now().Sub(start))
	}
}
