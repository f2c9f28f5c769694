package repository

import (
	"context"

	"github.com/jhoicas/inventario-obras/internal/domain/entity"
)

// SiteRepository define el puerto de persistencia para Site (DIP).
// ListNames actúa como directorio de sitios: dimensiona y ordena las
// columnas de la proyección externa.
type SiteRepository interface {
	Create(ctx context.Context, site *entity.Site) error
	GetByID(ctx context.Context, id string) (*entity.Site, error)
	Update(ctx context.Context, site *entity.Site) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search string) ([]*entity.Site, error)
	Count(ctx context.Context) (int64, error)
	ListNames(ctx context.Context) ([]string, error)
}
