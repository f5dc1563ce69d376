package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrCompanyExists      = errors.New("el nombre de empresa ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidID          = errors.New("identificador inválido")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Autenticación y ciclo de vida de tokens.
	ErrUnauthenticated = errors.New("no autenticado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrInvalidToken    = errors.New("token inválido")
	ErrExpiredToken    = errors.New("token expirado")
	ErrRevokedToken    = errors.New("token revocado")

	// OTP y límites de intentos. InvalidOtp habla de corrección del código;
	// TooManyAttempts y RateLimited hablan de volumen — son defensas
	// independientes y nunca se mezclan.
	ErrInvalidOtp      = errors.New("código de verificación incorrecto")
	ErrTooManyAttempts = errors.New("demasiados intentos fallidos")
	ErrRateLimited     = errors.New("demasiadas solicitudes")
)
