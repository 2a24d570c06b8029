package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

var (
	_ repository.PricingModelRepository = (*PricingModelRepo)(nil)
	_ repository.AvailabilityRepository = (*AvailabilityRepo)(nil)
)

// PricingModelRepo catálogo de servicios; services se guarda como JSONB.
type PricingModelRepo struct {
	q Querier
}

// NewPricingModelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPricingModelRepository(q Querier) *PricingModelRepo {
	return &PricingModelRepo{q: q}
}

// Create persiste el catálogo inicial del tenant.
func (r *PricingModelRepo) Create(ctx context.Context, m *entity.PricingModel) error {
	services, err := toJSONB(m.Services)
	if err != nil {
		return err
	}
	query := `INSERT INTO pricing_models (id, org_id, services, updated_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, m.ID, m.OrgID, services, m.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pricing model: %w", err)
	}
	return nil
}

// GetByOrgID obtiene el catálogo del tenant.
func (r *PricingModelRepo) GetByOrgID(ctx context.Context, orgID string) (*entity.PricingModel, error) {
	query := `SELECT id, org_id, services, updated_at FROM pricing_models WHERE org_id = $1`
	var (
		m   entity.PricingModel
		raw []byte
	)
	err := r.q.QueryRow(ctx, query, orgID).Scan(&m.ID, &m.OrgID, &raw, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pricing model: %w", err)
	}
	if err := fromJSONB(raw, &m.Services); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateServices reemplaza la lista de servicios.
func (r *PricingModelRepo) UpdateServices(ctx context.Context, m *entity.PricingModel) error {
	services, err := toJSONB(m.Services)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `UPDATE pricing_models SET services = $2, updated_at = $3 WHERE id = $1`,
		m.ID, services, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update pricing model: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AvailabilityRepo franjas disponibles como TIMESTAMPTZ[].
type AvailabilityRepo struct {
	q Querier
}

// NewAvailabilityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAvailabilityRepository(q Querier) *AvailabilityRepo {
	return &AvailabilityRepo{q: q}
}

// Upsert crea o reemplaza la agenda del tenant.
func (r *AvailabilityRepo) Upsert(ctx context.Context, a *entity.Availability) error {
	query := `
		INSERT INTO availability (id, org_id, available_slots, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (org_id) DO UPDATE
		SET available_slots = EXCLUDED.available_slots, updated_at = EXCLUDED.updated_at`
	slots := a.AvailableSlots
	if slots == nil {
		slots = []time.Time{}
	}
	if _, err := r.q.Exec(ctx, query, a.ID, a.OrgID, slots, a.UpdatedAt); err != nil {
		return fmt.Errorf("upsert availability: %w", err)
	}
	return nil
}

// GetByOrgID obtiene la agenda del tenant.
func (r *AvailabilityRepo) GetByOrgID(ctx context.Context, orgID string) (*entity.Availability, error) {
	query := `SELECT id, org_id, available_slots, updated_at FROM availability WHERE org_id = $1`
	var a entity.Availability
	err := r.q.QueryRow(ctx, query, orgID).Scan(&a.ID, &a.OrgID, &a.AvailableSlots, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability: %w", err)
	}
	return &a, nil
}

// RemoveSlot quita la franja reservada de la agenda.
func (r *AvailabilityRepo) RemoveSlot(ctx context.Context, orgID string, slot time.Time) error {
	query := `
		UPDATE availability SET available_slots = array_remove(available_slots, $2), updated_at = now()
		WHERE org_id = $1`
	if _, err := r.q.Exec(ctx, query, orgID, slot); err != nil {
		return fmt.Errorf("remove availability slot: %w", err)
	}
	return nil
}
