package dto

import "time"

// LedgerFilterRequest filtros opcionales para consultar el libro de auditoría.
type LedgerFilterRequest struct {
	FromSiteID string     `json:"from_site"`
	ToSiteID   string     `json:"to_site"`
	UserID     string     `json:"user"`
	ItemName   string     `json:"item"`
	From       *time.Time `json:"from"`
	To         *time.Time `json:"to"`
}

// LedgerEntryResponse salida de una entrada del libro de auditoría.
type LedgerEntryResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	ItemID      string    `json:"item_id,omitempty"`
	ItemName    string    `json:"item_name,omitempty"`
	Quantity    int64     `json:"quantity,omitempty"`
	FromSiteID  string    `json:"from_site,omitempty"`
	ToSiteID    string    `json:"to_site,omitempty"`
	SiteName    string    `json:"site_name,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// LedgerListResponse lista de entradas del libro de auditoría.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
}
