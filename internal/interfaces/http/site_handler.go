package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-obras/internal/application/dto"
	"github.com/jhoicas/inventario-obras/internal/application/usecase"
	"github.com/jhoicas/inventario-obras/internal/domain"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
)

// SiteHandler maneja las peticiones HTTP de sitios (protegido).
type SiteHandler struct {
	uc *usecase.SiteUseCase
}

// NewSiteHandler construye el handler.
func NewSiteHandler(uc *usecase.SiteUseCase) *SiteHandler {
	return &SiteHandler{uc: uc}
}

func toSiteResponse(s *entity.Site) dto.SiteResponse {
	return dto.SiteResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		ManagerID: s.ManagerID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Create godoc
// @Summary      Crear sitio
// @Description  Crear un sitio nuevo dispara, en segundo plano, la columna nueva
//
//	en todas las líneas de tiempo de la proyección.
//
// @Tags         sites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSiteRequest  true  "name, address, manager_id"
// @Success      201   {object}  dto.SiteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sites [post]
func (h *SiteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSiteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	site, err := h.uc.Create(c.Context(), in, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSiteResponse(site))
}

// List godoc
// @Summary      Listar sitios
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "búsqueda por nombre"
// @Success      200  {object}  dto.SiteListResponse
// @Router       /api/sites [get]
func (h *SiteHandler) List(c *fiber.Ctx) error {
	sites, err := h.uc.List(c.Context(), c.Query("q"))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.SiteResponse, 0, len(sites))
	for _, s := range sites {
		out = append(out, toSiteResponse(s))
	}
	return c.JSON(dto.SiteListResponse{Items: out})
}

// Count godoc
// @Summary      Número de sitios
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Router       /api/sites/count [get]
func (h *SiteHandler) Count(c *fiber.Ctx) error {
	n, err := h.uc.Count(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// GetByID godoc
// @Summary      Obtener sitio por ID
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del sitio"
// @Success      200  {object}  dto.SiteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sites/{id} [get]
func (h *SiteHandler) GetByID(c *fiber.Ctx) error {
	site, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSiteResponse(site))
}

// Update godoc
// @Summary      Actualizar sitio
// @Tags         sites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del sitio"
// @Param        body  body  dto.UpdateSiteRequest  true  "campos a modificar"
// @Success      200   {object}  dto.SiteResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sites/{id} [put]
func (h *SiteHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSiteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	site, err := h.uc.Update(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSiteResponse(site))
}

// Delete godoc
// @Summary      Eliminar sitio
// @Description  Falla con 409 si el sitio aún tiene encargado asignado; hay que
//
//	reasignarlo primero. Los registros de ítems del sitio se limpian
//	en segundo plano.
//
// @Tags         sites
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del sitio"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sites/{id} [delete]
func (h *SiteHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SITE_HAS_MANAGER", Message: "el sitio tiene encargado asignado; reasígnalo antes de eliminar"})
		}
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "sitio eliminado"})
}
