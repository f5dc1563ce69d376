package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pantallas-api/internal/application/auth"
	"github.com/jhoicas/Pantallas-api/internal/application/dto"
)

// AuthHandler maneja registro, verificación, login y recuperación.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar usuario (envía OTP al email)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name?, company_name?"
// @Success      200   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "email y password son requeridos"))
	}
	if len(in.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "password debe tener al menos 8 caracteres"))
	}
	if err := h.uc.Register(in); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("código de verificación enviado", nil))
}

// VerifyRegistration verifica el OTP de registro y entrega tokens.
func (h *AuthHandler) VerifyRegistration(c *fiber.Ctx) error {
	var in dto.VerifyOTPRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if in.Email == "" || strings.TrimSpace(in.OTP) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "email y otp son requeridos"))
	}
	out, err := h.uc.VerifyRegistration(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("email verificado", out))
}

// ResendOTP reenvía el código de verificación.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var in dto.ResendOTPRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if in.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "email es requerido"))
	}
	if err := h.uc.ResendOTP(in); err != nil {
		return fail(c, err)
	}
	// Genérico: no se revela si el email existe.
	return c.JSON(dto.OK("si la cuenta existe, se envió un código nuevo", nil))
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.Envelope
// @Failure      401   {object}  dto.Envelope
// @Failure      429   {object}  dto.Envelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "email y password son requeridos"))
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("sesión iniciada", out))
}

// Refresh rota el refresh token y entrega un par nuevo.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if in.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "refresh_token es requerido"))
	}
	out, err := h.uc.Refresh(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("tokens renovados", out))
}

// Logout consume el refresh token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if in.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "refresh_token es requerido"))
	}
	if err := h.uc.Logout(in); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("sesión cerrada", nil))
}

// ForgotPassword emite el OTP de recuperación.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if in.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "email es requerido"))
	}
	if err := h.uc.ForgotPassword(in); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("si la cuenta existe, se envió un código de recuperación", nil))
}

// VerifyResetOTP verifica el OTP de recuperación y entrega el reset token.
func (h *AuthHandler) VerifyResetOTP(c *fiber.Ctx) error {
	var in dto.VerifyOTPRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if in.Email == "" || strings.TrimSpace(in.OTP) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "email y otp son requeridos"))
	}
	out, err := h.uc.VerifyResetOTP(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("código verificado", out))
}

// ResetPassword fija el password nuevo con el reset token.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if in.ResetToken == "" || len(in.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "reset_token y new_password (mínimo 8) son requeridos"))
	}
	if err := h.uc.ResetPassword(in); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("password actualizado", nil))
}

// ChangePassword cambia el password del caller autenticado.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if in.OldPassword == "" || len(in.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "old_password y new_password (mínimo 8) son requeridos"))
	}
	if err := h.uc.ChangePassword(GetUserID(c), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("password actualizado", nil))
}
