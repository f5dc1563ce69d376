package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pantallas-api/internal/application/dto"
	"github.com/jhoicas/Pantallas-api/internal/application/usecase"
)

// ResourceHandler maneja templates, screens y playlists. El tipo de recurso
// viene fijado por la ruta; los predicados del listado llegan tipados y el
// caso de uso los pasa por el motor de scoping antes de tocar storage.
type ResourceHandler struct {
	uc   *usecase.ResourceUseCase
	kind string
}

// NewResourceHandler construye el handler para un tipo de recurso.
func NewResourceHandler(uc *usecase.ResourceUseCase, kind string) *ResourceHandler {
	return &ResourceHandler{uc: uc, kind: kind}
}

// Create crea un recurso sellado con la empresa del caller.
func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateResourceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "cuerpo inválido"))
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "name es requerido"))
	}
	out, err := h.uc.Create(Caller(c), h.kind, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("recurso creado", out))
}

// List lista los recursos activos visibles para el caller.
func (h *ResourceHandler) List(c *fiber.Ctx) error {
	in, err := parseListRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "query inválida"))
	}
	out, err := h.uc.List(Caller(c), h.kind, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("listado", out))
}

// ListRecycleBin lista la papelera del caller (aislamiento estricto).
func (h *ResourceHandler) ListRecycleBin(c *fiber.Ctx) error {
	in, err := parseListRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(dto.StatusValidation, "query inválida"))
	}
	out, err := h.uc.ListRecycleBin(Caller(c), h.kind, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("papelera", out))
}

// GetByID devuelve un recurso dentro del alcance del caller.
func (h *ResourceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(Caller(c), h.kind, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("recurso", out))
}

// Delete mueve el recurso a la papelera.
func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.SoftDelete(Caller(c), h.kind, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("recurso movido a la papelera", nil))
}

// Restore saca el recurso de la papelera.
func (h *ResourceHandler) Restore(c *fiber.Ctx) error {
	if err := h.uc.Restore(Caller(c), h.kind, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.OK("recurso restaurado", nil))
}

// parseListRequest arma el ListResourcesRequest con opcionales tipados:
// un parámetro ausente queda nil, jamás un string mágico.
func parseListRequest(c *fiber.Ctx) (dto.ListResourcesRequest, error) {
	var in dto.ListResourcesRequest
	if v := c.Query("name"); v != "" {
		in.Name = &v
	}
	if v := c.Query("created_by"); v != "" {
		in.CreatedBy = &v
	}
	if v := c.Query("is_public"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return in, err
		}
		in.IsPublic = &b
	}
	in.Limit, _ = strconv.Atoi(c.Query("limit"))
	in.Offset, _ = strconv.Atoi(c.Query("offset"))
	return in, nil
}
