package metrics

import (
	"context"
	"time"

	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain/entity"
)

var _ ports.LLMService = (*InstrumentedLLM)(nil)

// InstrumentedLLM decora un LLMService registrando resultado y latencia de cada llamada.
type InstrumentedLLM struct {
	next ports.LLMService
	m    *Metrics
}

func (m *Metrics) InstrumentLLM(next ports.LLMService) *InstrumentedLLM {
	return &InstrumentedLLM{next: next, m: m}
}

func (l *InstrumentedLLM) GenerateEstimate(ctx context.Context, in ports.EstimateInput) (*ports.EstimateDraft, error) {
	start := time.Now()
	d, err := l.next.GenerateEstimate(ctx, in)
	l.m.observeAI("estimate", start, err)
	return d, err
}

func (l *InstrumentedLLM) AnswerQuestion(ctx context.Context, services []entity.Service, question string) (string, error) {
	start := time.Now()
	s, err := l.next.AnswerQuestion(ctx, services, question)
	l.m.observeAI("concierge", start, err)
	return s, err
}

func (l *InstrumentedLLM) GenerateInsight(ctx context.Context, in ports.InsightInput) (string, error) {
	start := time.Now()
	s, err := l.next.GenerateInsight(ctx, in)
	l.m.observeAI("insight", start, err)
	return s, err
}
