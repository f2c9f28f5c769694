package entity

import "time"

// Site representa un sitio físico con inventario (obra, bodega o la reserva central).
// Name es la clave de presentación: encabeza la columna del sitio en la proyección.
type Site struct {
	ID        string
	Name      string
	Address   string
	ManagerID string // UserID del encargado; "" = sin asignar
	CreatedAt time.Time
	UpdatedAt time.Time
}
