package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

var (
	_ repository.AnalyticsCacheRepository = (*AnalyticsCacheRepo)(nil)
	_ repository.InsightRepository        = (*InsightRepo)(nil)
)

// AnalyticsCacheRepo métricas cacheadas en JSONB, una fila por tenant.
type AnalyticsCacheRepo struct {
	q Querier
}

// NewAnalyticsCacheRepository construye el adaptador de analítica.
func NewAnalyticsCacheRepository(q Querier) *AnalyticsCacheRepo {
	return &AnalyticsCacheRepo{q: q}
}

// Upsert sobrescribe las métricas del tenant.
func (r *AnalyticsCacheRepo) Upsert(ctx context.Context, c *entity.AnalyticsCache) error {
	metrics, err := toJSONB(c.Metrics)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO analytics_cache (id, org_id, metrics, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (org_id) DO UPDATE SET metrics = EXCLUDED.metrics, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, c.ID, c.OrgID, metrics, c.UpdatedAt); err != nil {
		return fmt.Errorf("upsert analytics cache: %w", err)
	}
	return nil
}

// GetByOrgID obtiene las métricas cacheadas del tenant.
func (r *AnalyticsCacheRepo) GetByOrgID(ctx context.Context, orgID string) (*entity.AnalyticsCache, error) {
	var (
		c   entity.AnalyticsCache
		raw []byte
	)
	err := r.q.QueryRow(ctx, `SELECT id, org_id, metrics, updated_at FROM analytics_cache WHERE org_id = $1`, orgID).
		Scan(&c.ID, &c.OrgID, &raw, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get analytics cache: %w", err)
	}
	if err := fromJSONB(raw, &c.Metrics); err != nil {
		return nil, err
	}
	return &c, nil
}

// InsightRepo recomendaciones IA.
type InsightRepo struct {
	q Querier
}

// NewInsightRepository construye el adaptador.
func NewInsightRepository(q Querier) *InsightRepo {
	return &InsightRepo{q: q}
}

// Replace borra las recomendaciones previas e inserta la nueva en una sola sentencia.
func (r *InsightRepo) Replace(ctx context.Context, in *entity.AIInsight) error {
	query := `
		WITH removed AS (DELETE FROM ai_insights WHERE org_id = $2)
		INSERT INTO ai_insights (id, org_id, insight, generated_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, in.ID, in.OrgID, in.Insight, in.GeneratedAt); err != nil {
		return fmt.Errorf("replace insight: %w", err)
	}
	return nil
}

// GetLatest última recomendación del tenant.
func (r *InsightRepo) GetLatest(ctx context.Context, orgID string) (*entity.AIInsight, error) {
	query := `
		SELECT id, org_id, insight, generated_at FROM ai_insights
		WHERE org_id = $1 ORDER BY generated_at DESC LIMIT 1`
	var in entity.AIInsight
	err := r.q.QueryRow(ctx, query, orgID).Scan(&in.ID, &in.OrgID, &in.Insight, &in.GeneratedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest insight: %w", err)
	}
	return &in, nil
}
