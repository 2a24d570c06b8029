package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/pkg/jwt"
)

// Locals key para la identidad del token en Fiber.
const LocalIdentity = "identity"

// AuthMiddleware valida el Bearer Token JWT y deja la identidad en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}

// GetIdentity devuelve la identidad del contexto (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) (jwt.Identity, bool) {
	id, ok := c.Locals(LocalIdentity).(jwt.Identity)
	return id, ok
}

// GetUserID devuelve el subject del token o "".
func GetUserID(c *fiber.Ctx) string {
	id, _ := GetIdentity(c)
	return id.UserID
}

// GetOrgID devuelve la organización activa del token o "".
func GetOrgID(c *fiber.Ctx) string {
	id, _ := GetIdentity(c)
	return id.OrgID
}

// adminChecker lo implementa *usecase.UserUseCase; la interfaz evita acoplar el middleware.
type adminChecker interface {
	IsAdmin(ctx context.Context, id jwt.Identity) (bool, error)
}

// RequireAdmin exige rol admin en el token y usuario local registrado.
// Debe usarse DESPUÉS de AuthMiddleware.
//   - 403 Forbidden → no es administrador de la plataforma.
//   - 503 Service Unavailable → fallo al consultar la DB.
func RequireAdmin(checker adminChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := GetIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token requerido"})
		}
		admin, err := checker.IsAdmin(c.UserContext(), id)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "ADMIN_CHECK_FAILED", Message: "no se pudo verificar el rol, intente más tarde",
			})
		}
		if !admin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "se requiere rol de administrador"})
		}
		return c.Next()
	}
}

// RequireActiveOrg exige una organización activa en el token.
func RequireActiveOrg() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetOrgID(c) == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NO_ORGANIZATION", Message: "el usuario no tiene una organización activa"})
		}
		return c.Next()
	}
}

// isMember informa si el token pertenece a la organización del path.
func isMember(c *fiber.Ctx, orgID string) bool {
	id, ok := GetIdentity(c)
	return ok && id.IsMemberOf(orgID)
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no perteneces a esta organización"})
}
