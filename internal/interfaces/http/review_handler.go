package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/usecase"
)

// ReviewHandler reseñas de citas.
type ReviewHandler struct {
	uc *usecase.ReviewUseCase
}

func NewReviewHandler(uc *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

// Submit godoc
// @Summary      Reseñar una cita
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitReviewRequest  true  "cita, rating 1..5 y comentario"
// @Success      201   {object}  dto.ReviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reviews [post]
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitReviewRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Submit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRecent godoc
// @Summary      Últimas 5 reseñas del tenant
// @Tags         reviews
// @Security     Bearer
// @Produce      json
// @Param        orgId  path  string  true  "organización"
// @Success      200  {object}  dto.ReviewListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/tenants/{orgId}/reviews [get]
func (h *ReviewHandler) ListRecent(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if !isMember(c, orgID) {
		return forbidden(c)
	}
	out, err := h.uc.ListRecent(c.UserContext(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
