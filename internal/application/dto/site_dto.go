package dto

import "time"

// CreateSiteRequest entrada para crear un sitio.
type CreateSiteRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Address   string `json:"address"`
	ManagerID string `json:"manager_id"`
}

// UpdateSiteRequest entrada para actualizar un sitio.
type UpdateSiteRequest struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	ManagerID *string `json:"manager_id"`
}

// SiteResponse salida de un sitio.
type SiteResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	ManagerID string    `json:"manager_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteListResponse lista de sitios.
type SiteListResponse struct {
	Items []SiteResponse `json:"items"`
}
