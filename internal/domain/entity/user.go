package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// User usuario de la aplicación (autenticación y atribución en el libro de auditoría).
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string // admin | manager
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
