package repository

import (
	"context"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// SubscriptionRepository suscripciones (una por tenant).
type SubscriptionRepository interface {
	Create(ctx context.Context, s *entity.Subscription) error
	GetByOrgID(ctx context.Context, orgID string) (*entity.Subscription, error)
	GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*entity.Subscription, error)
	Update(ctx context.Context, s *entity.Subscription) error
}
