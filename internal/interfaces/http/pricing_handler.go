package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/usecase"
)

// PricingHandler catálogo de servicios y agenda del tenant.
type PricingHandler struct {
	uc *usecase.PricingUseCase
}

func NewPricingHandler(uc *usecase.PricingUseCase) *PricingHandler {
	return &PricingHandler{uc: uc}
}

// Get godoc
// @Summary      Catálogo de la organización activa
// @Tags         pricing
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PricingModelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing [get]
func (h *PricingHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetPricingModel(c.UserContext(), GetOrgID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateServicePrice godoc
// @Summary      Cambiar el precio base de un servicio
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateServicePriceRequest  true  "servicio y nuevo precio (> 0)"
// @Success      200   {object}  dto.PricingModelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pricing/services [put]
func (h *PricingHandler) UpdateServicePrice(c *fiber.Ctx) error {
	var in dto.UpdateServicePriceRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateServicePrice(c.UserContext(), GetOrgID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetSlots godoc
// @Summary      Franjas disponibles (futuras, ascendente)
// @Tags         availability
// @Produce      json
// @Param        orgId  path  string  true  "organización"
// @Success      200  {object}  dto.SlotsResponse
// @Router       /api/tenants/{orgId}/slots [get]
func (h *PricingHandler) GetSlots(c *fiber.Ctx) error {
	out, err := h.uc.GetAvailableSlots(c.UserContext(), c.Params("orgId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReplaceSlots godoc
// @Summary      Reemplazar la agenda de la organización activa
// @Tags         availability
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReplaceSlotsRequest  true  "franjas RFC3339"
// @Success      200   {object}  dto.SlotsResponse
// @Router       /api/slots [put]
func (h *PricingHandler) ReplaceSlots(c *fiber.Ctx) error {
	var in dto.ReplaceSlotsRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ReplaceSlots(c.UserContext(), GetOrgID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
