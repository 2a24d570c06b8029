// Package logger configura zerolog para los binarios: campos base del servicio,
// salida legible en development y subloggers por componente y por tarea.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Service string    // valor del campo service en cada línea
	Env     string    // development -> consola legible; resto -> JSON
	Level   string    // trace, debug, info, warn, error; vacío o inválido = info
	Out     io.Writer // nil = stdout
}

// Logger zerolog con los campos base del servicio.
type Logger struct {
	zerolog.Logger
}

// New crea el logger y lo instala como logger global de zerolog.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	ctx := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	if cfg.Env != "" {
		ctx = ctx.Str("env", cfg.Env)
	}
	zl := ctx.Logger()
	log.Logger = zl
	return &Logger{Logger: zl}
}

// Nop descarta todo.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// ParseLevel nivel de zerolog a partir de LOG_LEVEL.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component sublogger con el campo component.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// ForTask sublogger de una tarea de la cola.
func ForTask(l zerolog.Logger, kind, id string, attempt int) zerolog.Logger {
	return l.With().Str("kind", kind).Str("task_id", id).Int("attempt", attempt).Logger()
}

// ForOrg sublogger con el tenant.
func ForOrg(l zerolog.Logger, orgID string) zerolog.Logger {
	return l.With().Str("org_id", orgID).Logger()
}
