package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/slick-api/internal/application/usecase"
	"github.com/jhoicas/slick-api/internal/domain"
)

// SubscriptionHandler suscripción del tenant y portal de facturación.
type SubscriptionHandler struct {
	uc *usecase.SubscriptionUseCase
}

func NewSubscriptionHandler(uc *usecase.SubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc}
}

// Get godoc
// @Summary      Suscripción del tenant
// @Description  null si no existe o el usuario no pertenece a la organización.
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Param        orgId  path  string  true  "organización"
// @Success      200  {object}  dto.SubscriptionResponse
// @Router       /api/tenants/{orgId}/subscription [get]
func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if !isMember(c, orgID) {
		return c.JSON(nil)
	}
	out, err := h.uc.Get(c.UserContext(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.JSON(nil)
	}
	return c.JSON(out)
}

// CreatePortalSession godoc
// @Summary      Abrir portal de facturación
// @Description  Si el proveedor falla responde 502 con url null.
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PortalResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.PortalResponse
// @Router       /api/subscription/portal [post]
func (h *SubscriptionHandler) CreatePortalSession(c *fiber.Ctx) error {
	out, err := h.uc.CreatePortalSession(c.UserContext(), GetOrgID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) && out != nil {
			return c.Status(fiber.StatusBadGateway).JSON(out)
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}
