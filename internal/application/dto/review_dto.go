package dto

import "time"

// SubmitReviewRequest reseña de una cita.
type SubmitReviewRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
	Rating        int    `json:"rating" validate:"min=1,max=5"`
	Comment       string `json:"comment"`
}

// ReviewResponse reseña.
type ReviewResponse struct {
	ID         string    `json:"id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ClientName string    `json:"client_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReviewListResponse reseñas recientes del tenant.
type ReviewListResponse struct {
	Items []ReviewResponse `json:"items"`
}
