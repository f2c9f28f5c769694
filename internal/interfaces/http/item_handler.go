package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-obras/internal/application/dto"
	"github.com/jhoicas/inventario-obras/internal/application/inventory"
	"github.com/jhoicas/inventario-obras/internal/domain"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
)

// ItemHandler maneja las peticiones HTTP de ítems y transferencias (protegido).
type ItemHandler struct {
	uc          *inventory.ItemUseCase
	transfer    *inventory.TransferUseCase
	reserveSite string
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase, transfer *inventory.TransferUseCase, reserveSite string) *ItemHandler {
	return &ItemHandler{uc: uc, transfer: transfer, reserveSite: reserveSite}
}

// domainError mapea los errores centinela del dominio a respuestas HTTP.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "la cantidad no puede quedar negativa"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la operación entra en conflicto con el estado actual"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toItemResponse(it *entity.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:           it.ID,
		Name:         it.Name,
		Category:     it.Category,
		SubCategory:  it.SubCategory,
		Price:        it.Price,
		Quantity:     it.Quantity,
		SiteID:       it.SiteID,
		SiteName:     it.SiteName,
		OriginSiteID: it.OriginSiteID,
		Image:        it.Image,
		LastUpdated:  it.LastUpdated,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func toItemResponses(items []*entity.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

// Create godoc
// @Summary      Dar de alta existencias de un ítem en un sitio
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "name, category, quantity, site_id"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.Add(c.Context(), in, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toItemResponse(item))
}

// ListDistinct godoc
// @Summary      Catálogo: un registro por nombre de ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items [get]
func (h *ItemHandler) ListDistinct(c *fiber.Ctx) error {
	items, err := h.uc.ListDistinct(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toItemResponses(items))
}

// Search godoc
// @Summary      Buscar ítems por nombre (parcial, case-insensitive)
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  true  "texto a buscar"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items/search [get]
func (h *ItemHandler) Search(c *fiber.Ctx) error {
	items, err := h.uc.Search(c.Context(), c.Query("q"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toItemResponses(items))
}

// ListPage godoc
// @Summary      Listado paginado con filtros (sitio, linaje, nombre)
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        limit           query  int     false  "tamaño de página (por defecto 10)"
// @Param        offset          query  int     false  "desplazamiento"
// @Param        site_id         query  string  false  "filtrar por sitio"
// @Param        origin_site_id  query  string  false  "filtrar por sitio de origen (linaje)"
// @Param        name            query  string  false  "nombre exacto"
// @Param        q               query  string  false  "búsqueda parcial"
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items/page [get]
func (h *ItemHandler) ListPage(c *fiber.Ctx) error {
	filter := repository.ItemPageFilter{
		SiteID:       c.Query("site_id"),
		OriginSiteID: c.Query("origin_site_id"),
		Name:         c.Query("name"),
		Search:       c.Query("q"),
		Limit:        c.QueryInt("limit"),
		Offset:       c.QueryInt("offset"),
	}
	items, total, err := h.uc.ListPage(c.Context(), filter)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ItemListResponse{
		Items: toItemResponses(items),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	})
}

// Stats godoc
// @Summary      Agregados globales del inventario
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryStatsResponse
// @Router       /api/items/stats [get]
func (h *ItemHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(stats)
}

// GetByID godoc
// @Summary      Obtener un registro de ítem por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del registro"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toItemResponse(item))
}

// ListBySite godoc
// @Summary      Registros de ítems de un sitio
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        siteId  path  string  true  "ID del sitio"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items/site/{siteId} [get]
func (h *ItemHandler) ListBySite(c *fiber.Ctx) error {
	items, err := h.uc.ListBySite(c.Context(), c.Params("siteId"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toItemResponses(items))
}

// TotalBySite godoc
// @Summary      Unidades totales en un sitio
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        siteId  path  string  true  "ID del sitio"
// @Success      200  {object}  map[string]int64
// @Router       /api/items/site/{siteId}/total [get]
func (h *ItemHandler) TotalBySite(c *fiber.Ctx) error {
	total, err := h.uc.TotalBySite(c.Context(), c.Params("siteId"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"total": total})
}

// Update godoc
// @Summary      Editar un ítem (campos opcionales)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del registro"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.Update(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toItemResponse(item))
}

// Delete godoc
// @Summary      Eliminar un registro de ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del registro"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ítem eliminado"})
}

// Increase godoc
// @Summary      Sumar N unidades a un registro
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustQuantityRequest  true  "item_id, quantity (positiva)"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/increase [post]
func (h *ItemHandler) Increase(c *fiber.Ctx) error {
	return h.adjust(c, +1)
}

// Decrease godoc
// @Summary      Restar N unidades a un registro (nunca por debajo de cero)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustQuantityRequest  true  "item_id, quantity (positiva)"
// @Success      200   {object}  dto.ItemResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/decrease [post]
func (h *ItemHandler) Decrease(c *fiber.Ctx) error {
	return h.adjust(c, -1)
}

func (h *ItemHandler) adjust(c *fiber.Ctx, sign int64) error {
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser positiva"})
	}
	item, err := h.uc.AdjustQuantity(c.Context(), in.ItemID, sign*in.Quantity, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toItemResponse(item))
}

// IncreaseOne godoc
// @Summary      Sumar una unidad a un registro
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del registro"
// @Success      200  {object}  dto.ItemResponse
// @Router       /api/items/{id}/increase [post]
func (h *ItemHandler) IncreaseOne(c *fiber.Ctx) error {
	item, err := h.uc.AdjustQuantity(c.Context(), c.Params("id"), 1, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toItemResponse(item))
}

// DecreaseOne godoc
// @Summary      Restar una unidad a un registro (nunca por debajo de cero)
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del registro"
// @Success      200  {object}  dto.ItemResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/decrease [post]
func (h *ItemHandler) DecreaseOne(c *fiber.Ctx) error {
	item, err := h.uc.AdjustQuantity(c.Context(), c.Params("id"), -1, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toItemResponse(item))
}

// Send godoc
// @Summary      Transferir unidades entre sitios (conservando linaje en destino)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "item_id, from, to, quantity"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/send [post]
func (h *ItemHandler) Send(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.transfer.Send(c.Context(), transferInput(in, GetUserID(c)))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.TransferResponse{From: toItemResponse(res.From), To: toItemResponse(res.To)})
}

// SendToReserve godoc
// @Summary      Devolver unidades a la reserva central (se funden por nombre)
// @Description  Si "to" viene vacío se resuelve el sitio de reserva por su nombre configurado.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "item_id, from, quantity (to opcional)"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/send-to-reserve [post]
func (h *ItemHandler) SendToReserve(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ToSiteID == "" {
		id, err := h.transfer.ReserveSiteID(c.Context(), h.reserveSite)
		if err != nil {
			return domainError(c, err)
		}
		in.ToSiteID = id
	}
	res, err := h.transfer.SendToReserve(c.Context(), transferInput(in, GetUserID(c)))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.TransferResponse{From: toItemResponse(res.From), To: toItemResponse(res.To)})
}

func transferInput(in dto.TransferRequest, userID string) inventory.TransferInput {
	return inventory.TransferInput{
		ItemID:     in.ItemID,
		FromSiteID: in.FromSiteID,
		ToSiteID:   in.ToSiteID,
		Quantity:   in.Quantity,
		UserID:     userID,
	}
}
