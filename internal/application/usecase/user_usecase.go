package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/entity"
	"github.com/jhoicas/slick-api/internal/domain/repository"
	"github.com/jhoicas/slick-api/pkg/jwt"
)

// Tableros que resuelve /api/me.
const (
	DashboardAdmin          = "admin"
	DashboardDetailer       = "detailer"
	DashboardClient         = "client"
	DashboardNoOrganization = "no_organization"
	DashboardUnknownRole    = "unknown_role"
)

// UserUseCase usuarios sincronizados desde el proveedor de identidad.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// StoreUser registra el usuario externo si no existe. Devuelve el ID local (nuevo o existente).
func (uc *UserUseCase) StoreUser(ctx context.Context, externalUserID string) (string, error) {
	externalUserID = strings.TrimSpace(externalUserID)
	if externalUserID == "" {
		return "", fmt.Errorf("id de usuario vacío: %w", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByExternalID(ctx, externalUserID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	u := &entity.User{ID: uuid.New().String(), ExternalUserID: externalUserID, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Entrega concurrente del mismo webhook.
			existing, gErr := uc.repo.GetByExternalID(ctx, externalUserID)
			if gErr == nil && existing != nil {
				return existing.ID, nil
			}
		}
		return "", fmt.Errorf("guardar usuario: %w", err)
	}
	return u.ID, nil
}

// IsAdmin exige el rol admin en el token y un usuario local para el subject.
func (uc *UserUseCase) IsAdmin(ctx context.Context, id jwt.Identity) (bool, error) {
	if id.Role != entity.RoleAdmin {
		return false, nil
	}
	u, err := uc.repo.GetByExternalID(ctx, id.UserID)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// Me resuelve qué tablero corresponde a la identidad.
func (uc *UserUseCase) Me(ctx context.Context, id jwt.Identity) (*dto.MeResponse, error) {
	out := &dto.MeResponse{UserID: id.UserID, OrgID: id.OrgID, OrgRole: id.OrgRole}
	admin, err := uc.IsAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case admin:
		out.Dashboard = DashboardAdmin
	case id.OrgID == "":
		out.Dashboard = DashboardNoOrganization
	case id.OrgRole == entity.OrgRoleDetailer:
		out.Dashboard = DashboardDetailer
	case id.OrgRole == entity.OrgRoleClient:
		out.Dashboard = DashboardClient
	default:
		out.Dashboard = DashboardUnknownRole
	}
	return out, nil
}
