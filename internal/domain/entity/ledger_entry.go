package entity

import "time"

// LedgerEntry registro inmutable del libro de auditoría: describe una única mutación.
// Description siempre está presente; una vez creada la entrada nunca se actualiza ni borra.
type LedgerEntry struct {
	ID          string
	UserID      string
	ItemID      string // opcional
	ItemName    string // opcional
	Quantity    int64  // delta de cantidad; 0 cuando no aplica
	FromSiteID  string // opcional
	ToSiteID    string // opcional
	Description string
	CreatedAt   time.Time
}
