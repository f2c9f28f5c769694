package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-obras/internal/application/dto"
	"github.com/jhoicas/inventario-obras/internal/domain"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
)

// ItemUseCase operaciones sobre registros de ítems: altas, ajustes de cantidad,
// ediciones, borrado y consultas. Toda mutación confirmada emite su evento al
// Recorder como trabajo posterior de mejor esfuerzo.
type ItemUseCase struct {
	items    repository.ItemRepository
	sites    repository.SiteRepository
	recorder *Recorder
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(items repository.ItemRepository, sites repository.SiteRepository, recorder *Recorder) *ItemUseCase {
	return &ItemUseCase{items: items, sites: sites, recorder: recorder}
}

// Add da de alta existencias de un ítem en un sitio.
func (uc *ItemUseCase) Add(ctx context.Context, in dto.CreateItemRequest, userID string) (*entity.Item, error) {
	if in.Name == "" || in.SiteID == "" || userID == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidCategory(in.Category) {
		return nil, domain.ErrInvalidInput
	}
	site, err := uc.sites.GetByID(ctx, in.SiteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Price:       in.Price,
		Quantity:    in.Quantity,
		SiteID:      site.ID,
		SiteName:    site.Name,
		Image:       in.Image,
		LastUpdated: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.items.Create(ctx, item); err != nil {
		return nil, err
	}

	uc.recorder.ItemAdded(entity.Mutation{
		Kind:          entity.MutationAdd,
		ItemID:        item.ID,
		ItemName:      item.Name,
		QuantityDelta: item.Quantity,
		NewQuantity:   item.Quantity,
		ToSiteID:      site.ID,
		UserID:        userID,
	})
	return item, nil
}

// AdjustQuantity suma delta (negativo = retirada) al registro. La guarda de
// no-negatividad vive en el repositorio: ErrInvalidQuantity si el resultado
// quedaría por debajo de cero, sin efecto parcial.
func (uc *ItemUseCase) AdjustQuantity(ctx context.Context, itemID string, delta int64, userID string) (*entity.Item, error) {
	if itemID == "" || userID == "" || delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.items.IncrementQuantity(ctx, itemID, delta)
	if err != nil {
		return nil, err
	}
	uc.recorder.QuantityAdjusted(entity.Mutation{
		Kind:          entity.MutationAdjust,
		ItemID:        item.ID,
		ItemName:      item.Name,
		QuantityDelta: delta,
		NewQuantity:   item.Quantity,
		FromSiteID:    item.SiteID,
		UserID:        userID,
	})
	return item, nil
}

// Update edita los campos del ítem. Si la cantidad cambia también se refleja en
// la proyección (fila de snapshot); la cantidad nunca puede quedar negativa.
func (uc *ItemUseCase) Update(ctx context.Context, itemID string, in dto.UpdateItemRequest, userID string) (*entity.Item, error) {
	if itemID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	oldQuantity := item.Quantity
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Category != nil {
		if !entity.ValidCategory(*in.Category) {
			return nil, domain.ErrInvalidInput
		}
		item.Category = *in.Category
	}
	if in.SubCategory != nil {
		item.SubCategory = *in.SubCategory
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		item.Quantity = *in.Quantity
	}
	if in.Image != nil {
		item.Image = *in.Image
	}
	now := time.Now()
	item.LastUpdated = now
	item.UpdatedAt = now

	if err := uc.items.Update(ctx, item); err != nil {
		return nil, err
	}

	uc.recorder.ItemEdited(entity.Mutation{
		Kind:          entity.MutationAdjust,
		ItemID:        item.ID,
		ItemName:      item.Name,
		QuantityDelta: item.Quantity - oldQuantity,
		NewQuantity:   item.Quantity,
		FromSiteID:    item.SiteID,
		UserID:        userID,
	}, item.Quantity != oldQuantity)
	return item, nil
}

// Delete elimina el registro. El borrado de la línea de tiempo en la proyección
// ocurre en segundo plano y solo si no queda otro registro con el mismo nombre.
func (uc *ItemUseCase) Delete(ctx context.Context, itemID, userID string) error {
	if itemID == "" || userID == "" {
		return domain.ErrInvalidInput
	}
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if err := uc.items.Delete(ctx, itemID); err != nil {
		return err
	}
	uc.recorder.ItemDeleted(entity.Mutation{
		Kind:       entity.MutationDelete,
		ItemID:     item.ID,
		ItemName:   item.Name,
		FromSiteID: item.SiteID,
		UserID:     userID,
	})
	return nil
}

// GetByID obtiene un registro por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListDistinct devuelve un registro por nombre de ítem (catálogo), ordenado por nombre.
func (uc *ItemUseCase) ListDistinct(ctx context.Context) ([]*entity.Item, error) {
	return uc.items.ListDistinctByName(ctx)
}

// ListBySite lista los registros de un sitio.
func (uc *ItemUseCase) ListBySite(ctx context.Context, siteID string) ([]*entity.Item, error) {
	if siteID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.items.ListBySite(ctx, siteID)
}

// Search busca registros por nombre (parcial, case-insensitive).
func (uc *ItemUseCase) Search(ctx context.Context, q string) ([]*entity.Item, error) {
	if q == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.items.SearchByName(ctx, q)
}

// ListPage lista registros con paginación y filtros (sitio, linaje, nombre, búsqueda).
func (uc *ItemUseCase) ListPage(ctx context.Context, filter repository.ItemPageFilter) ([]*entity.Item, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.items.ListPage(ctx, filter)
}

// Stats devuelve agregados globales: unidades totales y nombres de ítem distintos.
func (uc *ItemUseCase) Stats(ctx context.Context) (*dto.InventoryStatsResponse, error) {
	total, err := uc.items.TotalQuantity(ctx)
	if err != nil {
		return nil, err
	}
	unique, err := uc.items.CountDistinctNames(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.InventoryStatsResponse{TotalQuantity: total, UniqueItemCount: unique}, nil
}

// TotalBySite devuelve las unidades totales de un sitio.
func (uc *ItemUseCase) TotalBySite(ctx context.Context, siteID string) (int64, error) {
	if siteID == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.items.TotalQuantityBySite(ctx, siteID)
}
