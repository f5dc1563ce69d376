package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pantallas-api/internal/application/dto"
	"github.com/jhoicas/Pantallas-api/internal/application/usecase"
)

// CompanyHandler maneja creación y consulta de empresas.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler de empresas.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Create crea una empresa con el caller como dueño y lo vincula.
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if len(in.Name) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "name debe tener al menos 2 caracteres"))
	}
	out, err := h.uc.Create(GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("empresa creada", out))
}

// GetByID obtiene una empresa por ID.
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail(dto.StatusNotFound, "la empresa no existe"))
	}
	return c.JSON(dto.OK("empresa", out))
}
