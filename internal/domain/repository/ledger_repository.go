package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-obras/internal/domain/entity"
)

// LedgerFilter filtros opcionales para consultar el libro de auditoría.
type LedgerFilter struct {
	FromSiteID string
	ToSiteID   string
	UserID     string
	ItemName   string
	From       *time.Time
	To         *time.Time
}

// LedgerRepository define el puerto de persistencia para el libro de auditoría.
// Solo inserta y consulta: las entradas son inmutables (append-only).
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	List(ctx context.Context) ([]*entity.LedgerEntry, error)
	ListByFilter(ctx context.Context, filter LedgerFilter) ([]*entity.LedgerEntry, error)
	ListByToSite(ctx context.Context, siteID string) ([]*entity.LedgerEntry, error)
}
