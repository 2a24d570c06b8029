package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/scheduling"
	"github.com/jhoicas/slick-api/internal/domain"
)

// SchedulingHandler checkout y citas.
type SchedulingHandler struct {
	uc *scheduling.UseCase
}

func NewSchedulingHandler(uc *scheduling.UseCase) *SchedulingHandler {
	return &SchedulingHandler{uc: uc}
}

// CreateCheckout godoc
// @Summary      Iniciar pago de la cita
// @Description  El importe sale del presupuesto guardado. Si el proveedor falla responde 502 con url null.
// @Tags         scheduling
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCheckoutRequest  true  "assessment y franja elegida"
// @Success      200   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.CheckoutResponse
// @Router       /api/checkout [post]
func (h *SchedulingHandler) CreateCheckout(c *fiber.Ctx) error {
	var in dto.CreateCheckoutRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateCheckout(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) && out != nil {
			return c.Status(fiber.StatusBadGateway).JSON(out)
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListUpcoming godoc
// @Summary      Próximas citas del tenant
// @Description  Lista vacía si el usuario no pertenece a la organización.
// @Tags         scheduling
// @Security     Bearer
// @Produce      json
// @Param        orgId  path  string  true  "organización"
// @Success      200  {object}  dto.AppointmentListResponse
// @Router       /api/tenants/{orgId}/appointments [get]
func (h *SchedulingHandler) ListUpcoming(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if !isMember(c, orgID) {
		return c.JSON(dto.AppointmentListResponse{Items: []dto.AppointmentResponse{}})
	}
	out, err := h.uc.ListUpcoming(c.UserContext(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByAssessment godoc
// @Summary      Cita de un assessment
// @Description  null mientras el pago no se haya confirmado.
// @Tags         scheduling
// @Produce      json
// @Param        id   path  string  true  "assessment"
// @Success      200  {object}  dto.AppointmentResponse
// @Router       /api/assessments/{id}/appointment [get]
func (h *SchedulingHandler) GetByAssessment(c *fiber.Ctx) error {
	out, err := h.uc.GetByAssessmentID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.JSON(nil)
	}
	return c.JSON(out)
}

// ListMine godoc
// @Summary      Historial de citas del cliente autenticado
// @Tags         scheduling
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AppointmentListResponse
// @Router       /api/appointments/mine [get]
func (h *SchedulingHandler) ListMine(c *fiber.Ctx) error {
	id, _ := GetIdentity(c)
	out, err := h.uc.ListForClient(c.UserContext(), id.Email, id.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
