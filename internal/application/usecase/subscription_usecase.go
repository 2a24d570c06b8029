package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

// Estados de suscripción de Stripe que modifican la suscripción local.
const (
	stripeStatusActive   = "active"
	stripeStatusCanceled = "canceled"
)

// SubscriptionUseCase suscripción SaaS del tenant y portal de facturación.
type SubscriptionUseCase struct {
	subs       repository.SubscriptionRepository
	tenants    repository.TenantRepository
	payments   ports.PaymentProvider
	hostingURL string
	log        zerolog.Logger
	now        func() time.Time
}

// NewSubscriptionUseCase construye el caso de uso.
func NewSubscriptionUseCase(
	subs repository.SubscriptionRepository,
	tenants repository.TenantRepository,
	payments ports.PaymentProvider,
	hostingURL string,
	log zerolog.Logger,
) *SubscriptionUseCase {
	return &SubscriptionUseCase{
		subs:       subs,
		tenants:    tenants,
		payments:   payments,
		hostingURL: strings.TrimRight(hostingURL, "/"),
		log:        log,
		now:        time.Now,
	}
}

// Get suscripción del tenant; nil si no tiene.
func (uc *SubscriptionUseCase) Get(ctx context.Context, orgID string) (*dto.SubscriptionResponse, error) {
	s, err := uc.subs.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	return &dto.SubscriptionResponse{
		OrgID:                s.OrgID,
		StripeSubscriptionID: s.StripeSubscriptionID,
		Plan:                 s.Plan,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		EndsAt:               s.EndsAt,
		Active:               isActive(s, uc.now()),
	}, nil
}

// CreatePortalSession abre el portal de facturación de Stripe. Si el tenant aún no tiene
// cliente en Stripe devuelve la URL pública de la aplicación.
func (uc *SubscriptionUseCase) CreatePortalSession(ctx context.Context, orgID string) (*dto.PortalResponse, error) {
	t, err := uc.tenants.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.StripeCustomerID == "" {
		uc.log.Info().Str("org_id", orgID).Msg("tenant sin cliente de Stripe; portal simulado")
		u := uc.hostingURL
		return &dto.PortalResponse{URL: &u}, nil
	}
	u, err := uc.payments.CreatePortalSession(ctx, t.StripeCustomerID, uc.hostingURL+"/dashboard")
	if err != nil {
		uc.log.Error().Err(err).Str("org_id", orgID).Msg("error creando sesión de portal")
		return &dto.PortalResponse{URL: nil}, fmt.Errorf("portal: %w", domain.ErrUpstream)
	}
	return &dto.PortalResponse{URL: &u}, nil
}

// ApplyStripeUpdate aplica un cambio de suscripción recibido por webhook.
// active fija plan y periodo y limpia ends_at; canceled fija ends_at al fin del periodo.
func (uc *SubscriptionUseCase) ApplyStripeUpdate(ctx context.Context, ev ports.SubscriptionChanged) error {
	log := uc.log.With().Str("stripe_subscription_id", ev.StripeSubscriptionID).Str("status", ev.Status).Logger()
	s, err := uc.subs.GetByStripeID(ctx, ev.StripeSubscriptionID)
	if err != nil {
		return err
	}
	if s == nil {
		log.Warn().Msg("suscripción no encontrada")
		return nil
	}
	switch ev.Status {
	case stripeStatusActive:
		s.CurrentPeriodEnd = ev.CurrentPeriodEnd
		if ev.Plan != "" {
			s.Plan = ev.Plan
		}
		s.EndsAt = nil
	case stripeStatusCanceled:
		end := ev.CurrentPeriodEnd
		s.EndsAt = &end
	default:
		log.Debug().Msg("estado de suscripción ignorado")
		return nil
	}
	s.UpdatedAt = uc.now()
	if err := uc.subs.Update(ctx, s); err != nil {
		return fmt.Errorf("actualizar suscripción: %w", err)
	}
	log.Info().Msg("suscripción actualizada")
	return nil
}

// isActive informa si la suscripción sigue vigente en t (cancelada pero aún en periodo cuenta).
func isActive(s *entity.Subscription, t time.Time) bool {
	return s.EndsAt == nil || t.Before(*s.EndsAt)
}
