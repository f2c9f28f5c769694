package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-obras/internal/application/dto"
	"github.com/jhoicas/inventario-obras/internal/application/inventory"
	"github.com/jhoicas/inventario-obras/internal/domain"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
)

// SiteUseCase casos de uso CRUD para sitios. La creación dispara la evolución de
// esquema de la proyección (columna nueva en todas las líneas de tiempo); el
// borrado lanza la limpieza de ítems dependientes en segundo plano.
type SiteUseCase struct {
	repo     repository.SiteRepository
	recorder *inventory.Recorder
}

// NewSiteUseCase construye el caso de uso.
func NewSiteUseCase(repo repository.SiteRepository, recorder *inventory.Recorder) *SiteUseCase {
	return &SiteUseCase{repo: repo, recorder: recorder}
}

// Create crea un sitio nuevo.
func (uc *SiteUseCase) Create(ctx context.Context, in dto.CreateSiteRequest, userID string) (*entity.Site, error) {
	if in.Name == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	site := &entity.Site{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		ManagerID: in.ManagerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, site); err != nil {
		return nil, err
	}
	uc.recorder.SiteCreated(site.ID, site.Name, userID)
	return site, nil
}

// GetByID obtiene un sitio por ID.
func (uc *SiteUseCase) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	site, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	return site, nil
}

// Update actualiza un sitio.
func (uc *SiteUseCase) Update(ctx context.Context, id string, in dto.UpdateSiteRequest, userID string) (*entity.Site, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	site, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		site.Name = *in.Name
	}
	if in.Address != nil {
		site.Address = *in.Address
	}
	if in.ManagerID != nil {
		site.ManagerID = *in.ManagerID
	}
	site.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, site); err != nil {
		return nil, err
	}
	uc.recorder.SiteUpdated(site.Name, userID)
	return site, nil
}

// Delete elimina un sitio. ErrConflict si todavía tiene encargado asignado: el
// llamador debe reasignarlo primero. Los registros de ítems del sitio se limpian
// en segundo plano (mejor esfuerzo).
func (uc *SiteUseCase) Delete(ctx context.Context, id, userID string) error {
	if id == "" || userID == "" {
		return domain.ErrInvalidInput
	}
	site, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if site == nil {
		return domain.ErrNotFound
	}
	if site.ManagerID != "" {
		return domain.ErrConflict
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.SiteDeleted(site.ID, site.Name, userID)
	return nil
}

// List lista sitios, opcionalmente filtrados por búsqueda en el nombre.
func (uc *SiteUseCase) List(ctx context.Context, search string) ([]*entity.Site, error) {
	return uc.repo.List(ctx, search)
}

// Count devuelve el número de sitios.
func (uc *SiteUseCase) Count(ctx context.Context) (int64, error) {
	return uc.repo.Count(ctx)
}
