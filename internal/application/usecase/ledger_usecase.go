package usecase

import (
	"context"

	"github.com/jhoicas/inventario-obras/internal/application/dto"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
)

// LedgerUseCase consultas sobre el libro de auditoría. Las escrituras no pasan
// por aquí: solo el Recorder inserta entradas, y nunca se actualizan ni borran.
type LedgerUseCase struct {
	ledger repository.LedgerRepository
	users  repository.UserRepository
	sites  repository.SiteRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(ledger repository.LedgerRepository, users repository.UserRepository, sites repository.SiteRepository) *LedgerUseCase {
	return &LedgerUseCase{ledger: ledger, users: users, sites: sites}
}

// List devuelve todas las entradas, de la más reciente a la más antigua.
func (uc *LedgerUseCase) List(ctx context.Context) ([]*entity.LedgerEntry, error) {
	return uc.ledger.List(ctx)
}

// ListByFilter consulta con filtros opcionales (sitios, usuario, ítem, rango de fechas).
func (uc *LedgerUseCase) ListByFilter(ctx context.Context, in dto.LedgerFilterRequest) ([]*entity.LedgerEntry, error) {
	return uc.ledger.ListByFilter(ctx, repository.LedgerFilter{
		FromSiteID: in.FromSiteID,
		ToSiteID:   in.ToSiteID,
		UserID:     in.UserID,
		ItemName:   in.ItemName,
		From:       in.From,
		To:         in.To,
	})
}

// ListBySite devuelve las entradas con destino en el sitio, enriquecidas con los
// nombres de usuario y sitio para presentación.
func (uc *LedgerUseCase) ListBySite(ctx context.Context, siteID string) ([]dto.LedgerEntryResponse, error) {
	entries, err := uc.ledger.ListByToSite(ctx, siteID)
	if err != nil {
		return nil, err
	}

	userNames := map[string]string{}
	siteNames := map[string]string{}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := dto.LedgerEntryResponse{
			ID:          e.ID,
			UserID:      e.UserID,
			ItemID:      e.ItemID,
			ItemName:    e.ItemName,
			Quantity:    e.Quantity,
			FromSiteID:  e.FromSiteID,
			ToSiteID:    e.ToSiteID,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		}
		resp.UserName = uc.lookupUser(ctx, userNames, e.UserID)
		resp.SiteName = uc.lookupSite(ctx, siteNames, e.ToSiteID)
		out = append(out, resp)
	}
	return out, nil
}

func (uc *LedgerUseCase) lookupUser(ctx context.Context, cache map[string]string, id string) string {
	if id == "" {
		return ""
	}
	if name, ok := cache[id]; ok {
		return name
	}
	name := "usuario desconocido"
	if u, err := uc.users.GetByID(ctx, id); err == nil && u != nil {
		name = u.Name
	}
	cache[id] = name
	return name
}

func (uc *LedgerUseCase) lookupSite(ctx context.Context, cache map[string]string, id string) string {
	if id == "" {
		return ""
	}
	if name, ok := cache[id]; ok {
		return name
	}
	name := "sitio desconocido"
	if s, err := uc.sites.GetByID(ctx, id); err == nil && s != nil {
		name = s.Name
	}
	cache[id] = name
	return name
}
