package repository

import (
	"context"

	"github.com/jhoicas/inventario-obras/internal/domain/entity"
)

// ItemPageFilter filtros para listados paginados de ítems.
type ItemPageFilter struct {
	SiteID       string // filtrar por sitio propietario
	OriginSiteID string // filtrar por linaje (sitio de origen)
	Name         string // coincidencia exacta de nombre
	Search       string // búsqueda parcial, case-insensitive
	Limit        int
	Offset       int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// IncrementQuantity es el único punto de escritura de cantidades: aplica el delta
// con guarda de no-negatividad en una sola operación atómica por documento, lo que
// serializa incrementos concurrentes sobre el mismo registro.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error

	// IncrementQuantity suma delta (negativo = decremento) y devuelve el registro
	// actualizado. ErrInvalidQuantity si el resultado quedaría negativo;
	// ErrNotFound si el ítem no existe.
	IncrementQuantity(ctx context.Context, id string, delta int64) (*entity.Item, error)

	// GetBySite carga el registro (id, sitio); nil si no existe en ese sitio.
	GetBySite(ctx context.Context, id, siteID string) (*entity.Item, error)
	// FindByLineage busca por la clave compuesta (nombre, sitio, origen); nil si no hay.
	FindByLineage(ctx context.Context, name, siteID, originSiteID string) (*entity.Item, error)
	// FindByNameAndSite busca por (nombre, sitio) ignorando el linaje; nil si no hay.
	FindByNameAndSite(ctx context.Context, name, siteID string) (*entity.Item, error)

	ListDistinctByName(ctx context.Context) ([]*entity.Item, error)
	ListBySite(ctx context.Context, siteID string) ([]*entity.Item, error)
	SearchByName(ctx context.Context, search string) ([]*entity.Item, error)
	ListPage(ctx context.Context, filter ItemPageFilter) ([]*entity.Item, int64, error)

	CountByName(ctx context.Context, name string) (int64, error)
	CountDistinctNames(ctx context.Context) (int64, error)
	TotalQuantity(ctx context.Context) (int64, error)
	TotalQuantityBySite(ctx context.Context, siteID string) (int64, error)

	// DeleteBySite elimina todos los registros de un sitio (limpieza al borrar el sitio).
	DeleteBySite(ctx context.Context, siteID string) error
}
