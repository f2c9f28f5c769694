package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-obras/internal/application/dto"
	"github.com/jhoicas/inventario-obras/internal/application/usecase"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
)

// LedgerHandler consultas de solo lectura sobre el libro de auditoría (protegido).
type LedgerHandler struct {
	uc *usecase.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

func toLedgerResponses(entries []*entity.LedgerEntry) []dto.LedgerEntryResponse {
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryResponse{
			ID:          e.ID,
			UserID:      e.UserID,
			ItemID:      e.ItemID,
			ItemName:    e.ItemName,
			Quantity:    e.Quantity,
			FromSiteID:  e.FromSiteID,
			ToSiteID:    e.ToSiteID,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

// List godoc
// @Summary      Listar el libro de auditoría (más reciente primero)
// @Description  Filtros opcionales por sitio origen/destino, usuario, ítem y rango de fechas (RFC 3339).
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        from_site  query  string  false  "sitio origen"
// @Param        to_site    query  string  false  "sitio destino"
// @Param        user       query  string  false  "ID de usuario"
// @Param        item       query  string  false  "nombre de ítem"
// @Param        from       query  string  false  "fecha desde (RFC 3339)"
// @Param        to         query  string  false  "fecha hasta (RFC 3339)"
// @Success      200  {object}  dto.LedgerListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	filter := dto.LedgerFilterRequest{
		FromSiteID: c.Query("from_site"),
		ToSiteID:   c.Query("to_site"),
		UserID:     c.Query("user"),
		ItemName:   c.Query("item"),
	}
	for q, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		if v := c.Query(q); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida, se espera RFC 3339"})
			}
			*dst = &t
		}
	}

	entries, err := h.uc.ListByFilter(c.Context(), filter)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.LedgerListResponse{Items: toLedgerResponses(entries)})
}

// ListBySite godoc
// @Summary      Entradas con destino en un sitio, con nombres resueltos
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        siteId  path  string  true  "ID del sitio destino"
// @Success      200  {object}  dto.LedgerListResponse
// @Router       /api/ledger/site/{siteId} [get]
func (h *LedgerHandler) ListBySite(c *fiber.Ctx) error {
	entries, err := h.uc.ListBySite(c.Context(), c.Params("siteId"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.LedgerListResponse{Items: entries})
}
