package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler dispara trabajos periódicos (robfig/cron) con recuperación de panics.
type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	timeout time.Duration
}

// NewScheduler construye el cron. Cada ejecución recibe un contexto con timeout.
func NewScheduler(log zerolog.Logger, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = time.Minute
	}
	adapter := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(cron.WithLogger(adapter), cron.WithChain(
			cron.Recover(adapter),
			cron.SkipIfStillRunning(adapter),
		)),
		log:     log,
		timeout: timeout,
	}
}

// Add registra fn bajo la expresión expr ("@every 1h", "0 * * * *", ...).
func (s *Scheduler) Add(expr, name string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("trabajo programado fallido")
		}
	})
	return err
}

// Start arranca el cron en su propia goroutine.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el cron y espera a que terminen las ejecuciones en curso o a ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// cronLogger adapta zerolog a cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
