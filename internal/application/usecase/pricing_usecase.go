package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

// PricingUseCase catálogo de servicios y agenda del tenant.
type PricingUseCase struct {
	pricing      repository.PricingModelRepository
	availability repository.AvailabilityRepository
	now          func() time.Time
}

// NewPricingUseCase construye el caso de uso.
func NewPricingUseCase(pricing repository.PricingModelRepository, availability repository.AvailabilityRepository) *PricingUseCase {
	return &PricingUseCase{pricing: pricing, availability: availability, now: time.Now}
}

// GetPricingModel catálogo del tenant. domain.ErrNotFound si no existe.
func (uc *PricingUseCase) GetPricingModel(ctx context.Context, orgID string) (*dto.PricingModelResponse, error) {
	m, err := uc.pricing.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toPricingResponse(m), nil
}

// UpdateServicePrice cambia el precio base de un servicio existente.
func (uc *PricingUseCase) UpdateServicePrice(ctx context.Context, orgID string, in dto.UpdateServicePriceRequest) (*dto.PricingModelResponse, error) {
	if !in.NewPrice.IsPositive() {
		return nil, fmt.Errorf("el precio debe ser mayor que cero: %w", domain.ErrInvalidInput)
	}
	m, err := uc.pricing.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("pricing model: %w", domain.ErrNotFound)
	}
	idx := m.FindService(strings.TrimSpace(in.ServiceName))
	if idx < 0 {
		return nil, fmt.Errorf("Service '%s' not found: %w", in.ServiceName, domain.ErrNotFound)
	}
	m.Services[idx].BasePrice = in.NewPrice.Round(2)
	m.UpdatedAt = uc.now()
	if err := uc.pricing.UpdateServices(ctx, m); err != nil {
		return nil, fmt.Errorf("actualizar precio: %w", err)
	}
	return toPricingResponse(m), nil
}

// GetAvailableSlots franjas futuras del tenant en orden ascendente (vacío si no hay agenda).
func (uc *PricingUseCase) GetAvailableSlots(ctx context.Context, orgID string) (*dto.SlotsResponse, error) {
	a, err := uc.availability.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return &dto.SlotsResponse{Slots: []time.Time{}}, nil
	}
	return &dto.SlotsResponse{Slots: futureSlots(a.AvailableSlots, uc.now())}, nil
}

// ReplaceSlots reemplaza la agenda: descarta franjas pasadas y duplicadas y ordena.
func (uc *PricingUseCase) ReplaceSlots(ctx context.Context, orgID string, in dto.ReplaceSlotsRequest) (*dto.SlotsResponse, error) {
	now := uc.now()
	slots := futureSlots(in.Slots, now)
	current, err := uc.availability.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	a := &entity.Availability{ID: uuid.New().String(), OrgID: orgID, AvailableSlots: slots, UpdatedAt: now}
	if current != nil {
		a.ID = current.ID
	}
	if err := uc.availability.Upsert(ctx, a); err != nil {
		return nil, fmt.Errorf("guardar agenda: %w", err)
	}
	return &dto.SlotsResponse{Slots: slots}, nil
}

func futureSlots(in []time.Time, now time.Time) []time.Time {
	seen := make(map[int64]struct{}, len(in))
	out := make([]time.Time, 0, len(in))
	for _, s := range in {
		if !s.After(now) {
			continue
		}
		key := s.UnixNano()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s.UTC())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func toPricingResponse(m *entity.PricingModel) *dto.PricingModelResponse {
	out := &dto.PricingModelResponse{
		OrgID:     m.OrgID,
		Services:  make([]dto.ServiceDTO, 0, len(m.Services)),
		UpdatedAt: m.UpdatedAt,
	}
	for _, s := range m.Services {
		out.Services = append(out.Services, dto.ServiceDTO{Name: s.Name, Description: s.Description, BasePrice: s.BasePrice})
	}
	return out
}
