package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pantallas-api/internal/application/dto"
	"github.com/jhoicas/Pantallas-api/internal/domain"
)

// fail mapea la taxonomía de errores de dominio al Envelope tri-estado.
// Nunca deja pasar errores crudos de storage al cliente.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrTooManyAttempts):
		// El mensaje del LockError ya trae el tiempo restante legible.
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.Fail(dto.StatusTooMany, err.Error()))
	case errors.Is(err, domain.ErrInvalidOtp):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusError, "código de verificación incorrecto"))
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken),
		errors.Is(err, domain.ErrRevokedToken):
		// Genérico a propósito: no se distingue email inexistente de
		// password incorrecto ni el motivo exacto de la falla de token.
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(dto.StatusUnauthenticated, "credenciales incorrectas"))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail(dto.StatusForbidden, "acceso denegado"))
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail(dto.StatusNotFound, "recurso no encontrado"))
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail(dto.StatusConflict, "el email ya está registrado"))
	case errors.Is(err, domain.ErrCompanyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail(dto.StatusConflict, "el nombre de empresa ya está registrado"))
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail(dto.StatusConflict, "conflicto con el estado actual"))
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidID):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "entrada inválida"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail(dto.StatusError, "error interno"))
	}
}
