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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Devuelve domain.ErrDuplicate si el usuario externo ya existe.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `INSERT INTO users (id, external_user_id, created_at) VALUES ($1, $2, $3)`
	_, err := r.q.Exec(ctx, query, user.ID, user.ExternalUserID, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByExternalID obtiene un usuario por el ID del proveedor de identidad.
func (r *UserRepo) GetByExternalID(ctx context.Context, externalUserID string) (*entity.User, error) {
	query := `SELECT id, external_user_id, created_at FROM users WHERE external_user_id = $1`
	var u entity.User
	err := r.q.QueryRow(ctx, query, externalUserID).Scan(&u.ID, &u.ExternalUserID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by external id: %w", err)
	}
	return &u, nil
}
