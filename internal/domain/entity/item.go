package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías fijas de ítems.
const (
	CategoryTools      = "Tools"
	CategoryReusable   = "Reusable"
	CategoryConsumable = "Consumable"
)

// ValidCategory verifica que la categoría pertenezca al conjunto permitido.
func ValidCategory(c string) bool {
	switch c {
	case CategoryTools, CategoryReusable, CategoryConsumable:
		return true
	}
	return false
}

// Item representa una cantidad de un ítem en un sitio concreto.
// OriginSiteID marca el linaje: el sitio desde el que llegó la última transferencia
// ("" = sin linaje, alta directa o existencias de la reserva). Dos registros con el
// mismo (nombre, sitio) solo coexisten cuando su linaje difiere.
type Item struct {
	ID           string
	Name         string
	Category     string // Tools | Reusable | Consumable
	SubCategory  string
	Price        decimal.Decimal
	Quantity     int64 // invariante: >= 0 siempre
	SiteID       string
	SiteName     string
	OriginSiteID string
	Image        string
	LastUpdated  time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
