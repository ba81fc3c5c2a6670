package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/pkg/jwt"
)

// Locals keys para operador, terminal y rol en Fiber.
const (
	LocalOperatorID = "operator_id"
	LocalTerminalID = "terminal_id"
	LocalRole       = "role"
)

// Cabeceras usadas sólo en modo desarrollo (sin JWT_SECRET).
const (
	HeaderOperatorID = "X-Operator-Id"
	HeaderRole       = "X-Operator-Role"
)

// AuthMiddleware valida el Bearer Token JWT y carga operador, terminal y rol en c.Locals.
// Con secret vacío (sólo fuera de producción) confía en las cabeceras X-Operator-*.
func AuthMiddleware(jwtSecret, issuer string) fiber.Handler {
	if jwtSecret == "" {
		return devAuth
	}
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
		claims, err := jwt.Parse(jwtSecret, issuer, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalOperatorID, claims.OperatorID)
		c.Locals(LocalTerminalID, claims.TerminalID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

func devAuth(c *fiber.Ctx) error {
	operatorID := strings.TrimSpace(c.Get(HeaderOperatorID))
	if operatorID == "" {
		operatorID = "dev"
	}
	role := strings.TrimSpace(c.Get(HeaderRole))
	if role == "" {
		role = jwt.RoleSupervisor
	}
	c.Locals(LocalOperatorID, operatorID)
	c.Locals(LocalRole, role)
	return c.Next()
}

// RequireRole permite el paso sólo si el rol del token está entre allowed.
// Debe usarse después de AuthMiddleware.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range allowed {
			if strings.EqualFold(r, role) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

// GetOperatorID devuelve el operador del contexto (después del middleware de auth).
func GetOperatorID(c *fiber.Ctx) string {
	return localString(c, LocalOperatorID)
}

// GetTerminalID devuelve el terminal del token; vacío si no lo trae.
func GetTerminalID(c *fiber.Ctx) string {
	return localString(c, LocalTerminalID)
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
