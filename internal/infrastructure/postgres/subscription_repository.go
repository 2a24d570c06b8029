package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
)

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

// SubscriptionRepo implementación de SubscriptionRepository.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

const subscriptionColumns = `id, org_id, stripe_subscription_id, plan, current_period_end, ends_at, updated_at`

// Create persiste la suscripción del tenant.
func (r *SubscriptionRepo) Create(ctx context.Context, s *entity.Subscription) error {
	query := `INSERT INTO subscriptions (` + subscriptionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OrgID, s.StripeSubscriptionID, s.Plan, s.CurrentPeriodEnd, s.EndsAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// GetByOrgID obtiene la suscripción del tenant.
func (r *SubscriptionRepo) GetByOrgID(ctx context.Context, orgID string) (*entity.Subscription, error) {
	return r.getOne(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE org_id = $1`, orgID)
}

// GetByStripeID obtiene la suscripción por su ID en Stripe.
func (r *SubscriptionRepo) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*entity.Subscription, error) {
	return r.getOne(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE stripe_subscription_id = $1`,
		stripeSubscriptionID)
}

// Update actualiza plan, periodo y fecha de fin.
func (r *SubscriptionRepo) Update(ctx context.Context, s *entity.Subscription) error {
	query := `
		UPDATE subscriptions SET plan = $2, current_period_end = $3, ends_at = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.Plan, s.CurrentPeriodEnd, s.EndsAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepo) getOne(ctx context.Context, query, arg string) (*entity.Subscription, error) {
	var s entity.Subscription
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.OrgID, &s.StripeSubscriptionID, &s.Plan, &s.CurrentPeriodEnd, &s.EndsAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &s, nil
}
