package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

// Agenda inicial: los próximos 7 días a las 10:00 y a las 14:00.
const (
	seedAvailabilityDays = 7
	mockSubscriptionDays = 30
)

var seedSlotHours = []int{10, 14}

// TenantUseCase alta y administración de tenants.
type TenantUseCase struct {
	tx              repository.TxRunner
	tenants         repository.TenantRepository
	identity        ports.IdentityProvider
	defaultServices []entity.Service
	loc             *time.Location
	log             zerolog.Logger
	now             func() time.Time
}

// NewTenantUseCase construye el caso de uso. defaultServices es el catálogo inicial;
// loc la zona en la que se siembran las franjas (nil = UTC).
func NewTenantUseCase(
	tx repository.TxRunner,
	tenants repository.TenantRepository,
	identity ports.IdentityProvider,
	defaultServices []entity.Service,
	loc *time.Location,
	log zerolog.Logger,
) *TenantUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &TenantUseCase{
		tx:              tx,
		tenants:         tenants,
		identity:        identity,
		defaultServices: defaultServices,
		loc:             loc,
		log:             log,
		now:             time.Now,
	}
}

// Create crea la organización en el proveedor de identidad y guarda el tenant con su
// catálogo, agenda y suscripción de prueba en una transacción. Devuelve el org id.
func (uc *TenantUseCase) Create(ctx context.Context, createdBy string, in dto.CreateTenantRequest) (*dto.CreateTenantResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	orgID, err := uc.identity.CreateOrganization(ctx, name, createdBy)
	if err != nil {
		return nil, fmt.Errorf("crear organización: %w", err)
	}

	now := uc.now()
	tenant := &entity.Tenant{
		ID:         uuid.New().String(),
		Name:       name,
		OrgID:      orgID,
		ThemeColor: entity.DefaultThemeColor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	services := make([]entity.Service, len(uc.defaultServices))
	copy(services, uc.defaultServices)
	pricing := &entity.PricingModel{ID: uuid.New().String(), OrgID: orgID, Services: services, UpdatedAt: now}
	availability := &entity.Availability{
		ID:             uuid.New().String(),
		OrgID:          orgID,
		AvailableSlots: SeedSlots(now, uc.loc),
		UpdatedAt:      now,
	}
	sub := &entity.Subscription{
		ID:                   uuid.New().String(),
		OrgID:                orgID,
		StripeSubscriptionID: "sub_mock_" + uuid.New().String(),
		Plan:                 entity.PlanPro,
		CurrentPeriodEnd:     now.Add(mockSubscriptionDays * 24 * time.Hour),
		UpdatedAt:            now,
	}

	err = uc.tx.RunInTx(ctx, func(repos repository.TxRepos) error {
		if err := repos.Tenants.Create(ctx, tenant); err != nil {
			return err
		}
		if err := repos.Pricing.Create(ctx, pricing); err != nil {
			return err
		}
		if err := repos.Availability.Upsert(ctx, availability); err != nil {
			return err
		}
		return repos.Subscriptions.Create(ctx, sub)
	})
	if err != nil {
		return nil, fmt.Errorf("guardar tenant: %w", err)
	}
	uc.log.Info().Str("org_id", orgID).Str("name", name).Msg("tenant creado")
	return &dto.CreateTenantResponse{OrgID: orgID}, nil
}

// SeedSlots franjas de los próximos días a las horas de apertura, en la zona loc.
func SeedSlots(now time.Time, loc *time.Location) []time.Time {
	local := now.In(loc)
	slots := make([]time.Time, 0, seedAvailabilityDays*len(seedSlotHours))
	for i := 1; i <= seedAvailabilityDays; i++ {
		day := local.AddDate(0, 0, i)
		for _, h := range seedSlotHours {
			slots = append(slots, time.Date(day.Year(), day.Month(), day.Day(), h, 0, 0, 0, loc))
		}
	}
	return slots
}

// List todos los tenants (admin).
func (uc *TenantUseCase) List(ctx context.Context) (*dto.TenantListResponse, error) {
	list, err := uc.tenants.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.TenantListResponse{Items: make([]dto.TenantResponse, 0, len(list))}
	for _, t := range list {
		out.Items = append(out.Items, toTenantResponse(t))
	}
	return out, nil
}

// ListAll tenants para los trabajos internos.
func (uc *TenantUseCase) ListAll(ctx context.Context) ([]*entity.Tenant, error) {
	return uc.tenants.List(ctx)
}

// GetPublic datos públicos del tenant. domain.ErrNotFound si no existe.
func (uc *TenantUseCase) GetPublic(ctx context.Context, orgID string) (*dto.PublicTenantResponse, error) {
	t, err := uc.tenants.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.PublicTenantResponse{Name: t.Name, ThemeColor: t.ThemeColor}, nil
}

// GetMine tenant de la organización activa; nil si no existe.
func (uc *TenantUseCase) GetMine(ctx context.Context, orgID string) (*dto.TenantResponse, error) {
	t, err := uc.tenants.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}
	resp := toTenantResponse(t)
	return &resp, nil
}

// UpdateTheme cambia el color del tenant. Acepta #RGB o #RRGGBB.
func (uc *TenantUseCase) UpdateTheme(ctx context.Context, orgID string, in dto.UpdateThemeRequest) (*dto.TenantResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	color := strings.TrimSpace(in.ThemeColor)
	t, err := uc.tenants.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	t.ThemeColor = color
	t.UpdatedAt = uc.now()
	if err := uc.tenants.Update(ctx, t); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("actualizar tema: %w", err)
	}
	resp := toTenantResponse(t)
	return &resp, nil
}

func toTenantResponse(t *entity.Tenant) dto.TenantResponse {
	return dto.TenantResponse{
		ID:         t.ID,
		Name:       t.Name,
		OrgID:      t.OrgID,
		ThemeColor: t.ThemeColor,
		CreatedAt:  t.CreatedAt,
	}
}
