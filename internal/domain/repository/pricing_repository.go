package repository

import (
	"context"
	"time"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// PricingModelRepository catálogo de servicios (uno por tenant).
type PricingModelRepository interface {
	Create(ctx context.Context, model *entity.PricingModel) error
	GetByOrgID(ctx context.Context, orgID string) (*entity.PricingModel, error)
	UpdateServices(ctx context.Context, model *entity.PricingModel) error
}

// AvailabilityRepository franjas disponibles (una fila por tenant).
type AvailabilityRepository interface {
	Upsert(ctx context.Context, availability *entity.Availability) error
	GetByOrgID(ctx context.Context, orgID string) (*entity.Availability, error)
	// RemoveSlot quita una franja ya reservada; no falla si el tenant no tiene agenda.
	RemoveSlot(ctx context.Context, orgID string, slot time.Time) error
}
