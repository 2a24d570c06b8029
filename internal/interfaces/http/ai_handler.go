package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/usecase"
)

// AIHandler concierge para clientes e insights para el detailer.
type AIHandler struct {
	uc *usecase.AIUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// AskConcierge godoc
// @Summary      Preguntar al asistente del negocio
// @Description  Responde solo preguntas sobre detailing usando el catálogo del tenant. Timeout interno de 20 s.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        orgId  path  string                true  "organización"
// @Param        body   body  dto.ConciergeRequest  true  "pregunta"
// @Success      200   {object}  dto.ConciergeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/tenants/{orgId}/concierge [post]
func (h *AIHandler) AskConcierge(c *fiber.Ctx) error {
	var in dto.ConciergeRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AskConcierge(c.UserContext(), c.Params("orgId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LatestInsight godoc
// @Summary      Última recomendación de negocio
// @Tags         ai
// @Security     Bearer
// @Produce      json
// @Param        orgId  path  string  true  "organización"
// @Success      200  {object}  dto.InsightResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/tenants/{orgId}/insight [get]
func (h *AIHandler) LatestInsight(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if !isMember(c, orgID) {
		return forbidden(c)
	}
	out, err := h.uc.GetLatestInsight(c.UserContext(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.JSON(nil)
	}
	return c.JSON(out)
}
