package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/application/estimate"
)

// AssessmentHandler formulario público de autoevaluación y su presupuesto.
type AssessmentHandler struct {
	uc *estimate.UseCase
}

func NewAssessmentHandler(uc *estimate.UseCase) *AssessmentHandler {
	return &AssessmentHandler{uc: uc}
}

// Submit godoc
// @Summary      Enviar autoevaluación del vehículo
// @Description  Guarda el assessment y encola la generación del presupuesto con IA.
// @Tags         assessments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitAssessmentRequest  true  "cliente y vehículo"
// @Success      201   {object}  dto.SubmitAssessmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/assessments [post]
func (h *AssessmentHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitAssessmentRequest
	if err := bind(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Submit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener assessment
// @Tags         assessments
// @Produce      json
// @Param        id   path  string  true  "assessment"
// @Success      200  {object}  dto.AssessmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assessments/{id} [get]
func (h *AssessmentHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetAssessment(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetEstimate godoc
// @Summary      Presupuesto del assessment
// @Description  Incluye job_status (pending, in_progress, completed, failed); estimate es null hasta completarse.
// @Tags         assessments
// @Produce      json
// @Param        id   path  string  true  "assessment"
// @Success      200  {object}  dto.EstimateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assessments/{id}/estimate [get]
func (h *AssessmentHandler) GetEstimate(c *fiber.Ctx) error {
	out, err := h.uc.GetEstimate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// EstimatePDF godoc
// @Summary      Cotización en PDF
// @Tags         assessments
// @Produce      application/pdf
// @Param        id   path  string  true  "assessment"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assessments/{id}/estimate.pdf [get]
func (h *AssessmentHandler) EstimatePDF(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.EstimatePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
