package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pantallas-api/internal/application/dto"
)

// companyChecker es el contrato mínimo que necesita el middleware para
// verificar el estado de la empresa. El uso de interfaz evita el import
// circular con application.
type companyChecker interface {
	IsActiveCompany(ctx context.Context, companyID string) (bool, error)
}

// RequireActiveCompany devuelve un middleware Fiber que rechaza callers
// cuya empresa está suspendida. Debe usarse DESPUÉS de AuthMiddleware
// (necesita LocalCompanyID). Un caller sin empresa pasa: su contenido va
// scoped por dueño.
//
// Comportamiento:
//   - 403 Forbidden → empresa suspendida o inactiva.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireActiveCompany(checker companyChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Next()
		}
		active, err := checker.IsActiveCompany(c.Context(), companyID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.Fail(dto.StatusError, "no se pudo verificar la empresa, intente más tarde"))
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail(dto.StatusForbidden, "la empresa está suspendida"))
		}
		return c.Next()
	}
}
