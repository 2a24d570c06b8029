package repository

import (
	"context"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// UserRepository persistencia de usuarios sincronizados desde el proveedor de identidad.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByExternalID(ctx context.Context, externalUserID string) (*entity.User, error)
}
