package repository

import (
	"context"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// AnalyticsCacheRepository métricas precalculadas (una fila por tenant, sobrescrita en cada recálculo).
type AnalyticsCacheRepository interface {
	Upsert(ctx context.Context, c *entity.AnalyticsCache) error
	GetByOrgID(ctx context.Context, orgID string) (*entity.AnalyticsCache, error)
}

// InsightRepository recomendaciones IA.
type InsightRepository interface {
	// Replace borra las recomendaciones previas del tenant e inserta la nueva.
	Replace(ctx context.Context, insight *entity.AIInsight) error
	GetLatest(ctx context.Context, orgID string) (*entity.AIInsight, error)
}
