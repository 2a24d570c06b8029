package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/usecase"
)

// TenantHandler negocios de detailing (tenants).
type TenantHandler struct {
	uc *usecase.TenantUseCase
}

func NewTenantHandler(uc *usecase.TenantUseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// Create godoc
// @Summary      Crear tenant
// @Description  Crea la organización en el proveedor de identidad y siembra catálogo, agenda y suscripción.
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantRequest  true  "nombre del negocio"
// @Success      201   {object}  dto.CreateTenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/admin/tenants [post]
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar tenants
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TenantListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/tenants [get]
func (h *TenantHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetPublic godoc
// @Summary      Datos públicos del tenant
// @Tags         tenants
// @Produce      json
// @Param        orgId  path  string  true  "organización"
// @Success      200  {object}  dto.PublicTenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{orgId} [get]
func (h *TenantHandler) GetPublic(c *fiber.Ctx) error {
	out, err := h.uc.GetPublic(c.UserContext(), c.Params("orgId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetMine godoc
// @Summary      Tenant de la organización activa
// @Description  Devuelve null si la organización aún no tiene tenant.
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TenantResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/tenant [get]
func (h *TenantHandler) GetMine(c *fiber.Ctx) error {
	out, err := h.uc.GetMine(c.UserContext(), GetOrgID(c))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.JSON(nil)
	}
	return c.JSON(out)
}

// UpdateTheme godoc
// @Summary      Cambiar color del tenant
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateThemeRequest  true  "color hex (#fff o #ffffff)"
// @Success      200   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/tenant/theme [put]
func (h *TenantHandler) UpdateTheme(c *fiber.Ctx) error {
	var in dto.UpdateThemeRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateTheme(c.UserContext(), GetOrgID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
