package repository

import (
	"context"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant (DIP).
// La implementación vive en infrastructure. Get* devuelve (nil, nil) si no existe.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByOrgID(ctx context.Context, orgID string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
	List(ctx context.Context) ([]*entity.Tenant, error)
}
