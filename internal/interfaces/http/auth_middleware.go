package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pantallas-api/internal/application/auth"
	"github.com/jhoicas/Pantallas-api/internal/application/dto"
	"github.com/jhoicas/Pantallas-api/internal/domain"
	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
	"github.com/jhoicas/Pantallas-api/internal/domain/scope"
)

// Locals keys para identidad del caller en Fiber.
const (
	LocalUserID    = "user_id"
	LocalRole      = "role"
	LocalCompanyID = "company_id"
)

// AuthMiddleware valida el access token Bearer y carga la identidad a
// c.Locals. El access no toca el ledger: firma + TTL corto son su única
// defensa, y cualquier falla significa re-autenticarse.
func AuthMiddleware(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.StatusUnauthenticated, "Authorization header requerido"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.StatusUnauthenticated, "formato: Bearer <token>"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.StatusUnauthenticated, "token vacío"))
		}
		claims, err := tokens.Verify(tokenString, entity.TokenAccess)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.StatusUnauthenticated, "token inválido o expirado"))
		}
		c.Locals(LocalUserID, claims.Subject)
		c.Locals(LocalRole, claims.Role)
		if claims.CompanyID != nil {
			c.Locals(LocalCompanyID, *claims.CompanyID)
		}
		return c.Next()
	}
}

// RequirePermissions gate RBAC: todos los permisos requeridos deben estar en
// la tabla estática del rol del caller. super_admin pasa siempre (bypass
// centralizado en domain, compartido con el motor de scoping).
func RequirePermissions(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.StatusUnauthenticated, "rol ausente en el token"))
		}
		if !domain.HasPermissions(role, required) {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail(dto.StatusForbidden, "permisos insuficientes"))
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// GetCompanyID devuelve el CompanyID del contexto; "" si el caller no tiene empresa.
func GetCompanyID(c *fiber.Ctx) string {
	return localString(c, LocalCompanyID)
}

// Caller arma la identidad de scoping desde los locals.
func Caller(c *fiber.Ctx) scope.Caller {
	caller := scope.Caller{ID: GetUserID(c), Role: GetRole(c)}
	if companyID := GetCompanyID(c); companyID != "" {
		caller.CompanyID = &companyID
	}
	return caller
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
