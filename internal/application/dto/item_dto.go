package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para dar de alta existencias de un ítem en un sitio.
type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Category    string          `json:"category" validate:"required"`
	SubCategory string          `json:"sub_category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity" validate:"min=0"`
	SiteID      string          `json:"site_id" validate:"required"`
	Image       string          `json:"image"`
}

// UpdateItemRequest entrada para editar un ítem (campos opcionales).
type UpdateItemRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	SubCategory *string          `json:"sub_category"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int64           `json:"quantity"`
	Image       *string          `json:"image"`
}

// AdjustQuantityRequest entrada para sumar o restar unidades a un registro.
type AdjustQuantityRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"min=1"`
}

// TransferRequest entrada para transferir unidades entre sitios.
type TransferRequest struct {
	ItemID     string `json:"item_id" validate:"required"`
	FromSiteID string `json:"from" validate:"required"`
	ToSiteID   string `json:"to" validate:"required"`
	Quantity   int64  `json:"quantity" validate:"min=1"`
}

// ItemResponse salida de un registro de ítem.
type ItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	SubCategory  string          `json:"sub_category"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int64           `json:"quantity"`
	SiteID       string          `json:"site_id"`
	SiteName     string          `json:"site_name"`
	OriginSiteID string          `json:"origin_site_id,omitempty"`
	Image        string          `json:"image,omitempty"`
	LastUpdated  time.Time       `json:"last_updated"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// TransferResponse resultado síncrono de una transferencia: ambos registros actualizados.
type TransferResponse struct {
	From ItemResponse `json:"from"`
	To   ItemResponse `json:"to"`
}

// InventoryStatsResponse agregados globales del inventario.
type InventoryStatsResponse struct {
	TotalQuantity   int64 `json:"total_quantity"`
	UniqueItemCount int64 `json:"unique_item_count"`
}
