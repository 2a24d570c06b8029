package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/jobs"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

// aiTimeout las llamadas a LLMs pueden demorar varios segundos.
const aiTimeout = 20 * time.Second

// AIUseCase agentes de IA: concierge para clientes y recomendaciones para el detailer.
type AIUseCase struct {
	llm      ports.LLMService
	pricing  repository.PricingModelRepository
	cache    repository.AnalyticsCacheRepository
	insights repository.InsightRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewAIUseCase construye el caso de uso inyectando el puerto LLMService.
func NewAIUseCase(
	llm ports.LLMService,
	pricing repository.PricingModelRepository,
	cache repository.AnalyticsCacheRepository,
	insights repository.InsightRepository,
	log zerolog.Logger,
) *AIUseCase {
	return &AIUseCase{llm: llm, pricing: pricing, cache: cache, insights: insights, log: log, now: time.Now}
}

// AskConcierge responde una pregunta de un cliente usando el catálogo del tenant.
func (uc *AIUseCase) AskConcierge(ctx context.Context, orgID string, in dto.ConciergeRequest) (*dto.ConciergeResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	question := strings.TrimSpace(in.Question)
	m, err := uc.pricing.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("Business information not found: %w", domain.ErrNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	answer, err := uc.llm.AnswerQuestion(ctx, m.Services, question)
	if err != nil {
		return nil, fmt.Errorf("concierge IA: %w", err)
	}
	return &dto.ConciergeResponse{Answer: strings.TrimSpace(answer)}, nil
}

// HandleInsightTask adapta GenerateInsight al contrato de jobs.Handler.
func (uc *AIUseCase) HandleInsightTask(ctx context.Context, task *entity.Task) error {
	p, err := jobs.Decode[jobs.OrgPayload](task)
	if err != nil {
		return err
	}
	return uc.GenerateInsight(ctx, p.OrgID)
}

// GenerateInsight genera una recomendación a partir de las métricas cacheadas y
// reemplaza las anteriores del tenant. Sin métricas no hace nada.
func (uc *AIUseCase) GenerateInsight(ctx context.Context, orgID string) error {
	cached, err := uc.cache.GetByOrgID(ctx, orgID)
	if err != nil {
		return err
	}
	if cached == nil {
		uc.log.Info().Str("org_id", orgID).Msg("sin métricas; se omite la recomendación")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, aiTimeout)
	defer cancel()

	text, err := uc.llm.GenerateInsight(ctx, ports.InsightInput{
		TotalRevenue:      cached.Metrics.TotalRevenue,
		TotalAppointments: cached.Metrics.TotalAppointments,
		AverageRating:     cached.Metrics.AverageRating,
	})
	if err != nil {
		return fmt.Errorf("recomendación IA: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("recomendación vacía: %w", domain.ErrUpstream)
	}
	insight := &entity.AIInsight{ID: uuid.New().String(), OrgID: orgID, Insight: text, GeneratedAt: uc.now()}
	if err := uc.insights.Replace(ctx, insight); err != nil {
		return err
	}
	uc.log.Info().Str("org_id", orgID).Msg("recomendación generada")
	return nil
}

// GetLatestInsight última recomendación del tenant; nil si no hay.
func (uc *AIUseCase) GetLatestInsight(ctx context.Context, orgID string) (*dto.InsightResponse, error) {
	in, err := uc.insights.GetLatest(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, nil
	}
	return &dto.InsightResponse{Insight: in.Insight, GeneratedAt: in.GeneratedAt}, nil
}
