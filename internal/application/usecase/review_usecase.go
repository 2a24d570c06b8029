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
)

// RecentReviewsLimit reseñas que se muestran en el dashboard del detailer.
const RecentReviewsLimit = 5

// ReviewUseCase reseñas de citas.
type ReviewUseCase struct {
	reviews      repository.ReviewRepository
	appointments repository.AppointmentRepository
	now          func() time.Time
}

// NewReviewUseCase construye el caso de uso.
func NewReviewUseCase(reviews repository.ReviewRepository, appointments repository.AppointmentRepository) *ReviewUseCase {
	return &ReviewUseCase{reviews: reviews, appointments: appointments, now: time.Now}
}

// Submit guarda la reseña de una cita. Solo se conserva el primer nombre del cliente.
// Errores: ErrInvalidInput (rating fuera de 1..5), ErrNotFound (cita), ErrConflict (ya reseñada).
func (uc *ReviewUseCase) Submit(ctx context.Context, in dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	appt, err := uc.appointments.GetByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, fmt.Errorf("cita: %w", domain.ErrNotFound)
	}
	existing, err := uc.reviews.GetByAppointmentID(ctx, appt.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("la cita ya tiene reseña: %w", domain.ErrConflict)
	}

	r := &entity.Review{
		ID:            uuid.New().String(),
		AppointmentID: appt.ID,
		OrgID:         appt.OrgID,
		Rating:        in.Rating,
		Comment:       strings.TrimSpace(in.Comment),
		ClientName:    firstName(appt.ClientName),
		CreatedAt:     uc.now(),
	}
	if err := uc.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("la cita ya tiene reseña: %w", domain.ErrConflict)
		}
		return nil, fmt.Errorf("guardar reseña: %w", err)
	}
	resp := toReviewResponse(r)
	return &resp, nil
}

// ListRecent últimas reseñas del tenant.
func (uc *ReviewUseCase) ListRecent(ctx context.Context, orgID string) (*dto.ReviewListResponse, error) {
	list, err := uc.reviews.ListRecentByOrg(ctx, orgID, RecentReviewsLimit)
	if err != nil {
		return nil, err
	}
	out := &dto.ReviewListResponse{Items: make([]dto.ReviewResponse, 0, len(list))}
	for _, r := range list {
		out.Items = append(out.Items, toReviewResponse(r))
	}
	return out, nil
}

func firstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func toReviewResponse(r *entity.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:         r.ID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		ClientName: r.ClientName,
		CreatedAt:  r.CreatedAt,
	}
}
