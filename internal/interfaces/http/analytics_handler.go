package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/slick-api/internal/application/analytics"
)

// AnalyticsHandler métricas cacheadas y reporte de clientes. Solo miembros de la organización.
type AnalyticsHandler struct {
	uc *appanalytics.UseCase
}

func NewAnalyticsHandler(uc *appanalytics.UseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Metrics godoc
// @Summary      Métricas del tablero
// @Description  null hasta el primer cálculo (cron horario).
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        orgId  path  string  true  "organización"
// @Success      200  {object}  dto.DashboardMetricsDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/{orgId}/metrics [get]
func (h *AnalyticsHandler) Metrics(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if !isMember(c, orgID) {
		return forbidden(c)
	}
	out, err := h.uc.GetDashboardMetrics(c.UserContext(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.JSON(nil)
	}
	return c.JSON(out)
}

// Forecast godoc
// @Summary      Previsión de ingresos a 3 meses
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        orgId  path  string  true  "organización"
// @Success      200  {array}   dto.ForecastPointDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/{orgId}/forecast [get]
func (h *AnalyticsHandler) Forecast(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if !isMember(c, orgID) {
		return forbidden(c)
	}
	out, err := h.uc.GetRevenueForecast(c.UserContext(), orgID)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.JSON(nil)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de clientes
// @Tags         analytics
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/xml
// @Produce      application/pdf
// @Param        orgId   path   string  true   "organización"
// @Param        format  query  string  false  "csv (por defecto), xml o pdf"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/analytics/{orgId}/report [get]
func (h *AnalyticsHandler) Report(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if !isMember(c, orgID) {
		return forbidden(c)
	}
	rep, err := h.uc.GenerateClientReport(c.UserContext(), orgID, c.Query("format"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, rep.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+rep.Filename+`"`)
	return c.Send(rep.Body)
}
