package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP. El mensaje del error se
// devuelve tal cual salvo en 500, donde se oculta.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, errBadBody):
		status, code = fiber.StatusBadRequest, "INVALID_BODY"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrRateLimited):
		status, code = fiber.StatusTooManyRequests, "RATE_LIMITED"
	case errors.Is(err, domain.ErrNotConfigured):
		status, code = fiber.StatusServiceUnavailable, "NOT_CONFIGURED"
	case errors.Is(err, domain.ErrUpstream):
		status, code = fiber.StatusBadGateway, "UPSTREAM"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = fiber.StatusRequestTimeout, "TIMEOUT"
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

var errBadBody = errors.New("cuerpo de la petición inválido")

// bind decodifica el cuerpo en out y aplica sus etiquetas validate.
func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errBadBody
	}
	return dto.Validate(out)
}
