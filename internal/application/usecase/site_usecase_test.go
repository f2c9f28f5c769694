package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-obras/internal/application/dto"
	"github.com/jhoicas/inventario-obras/internal/application/inventory"
	"github.com/jhoicas/inventario-obras/internal/domain"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
	"github.com/jhoicas/inventario-obras/pkg/logger"
)

// Stubs mínimos: solo los métodos que toca el flujo de sitios hacen algo.

type stubSiteRepo struct {
	mu    sync.Mutex
	sites map[string]*entity.Site
}

func newStubSiteRepo() *stubSiteRepo { return &stubSiteRepo{sites: map[string]*entity.Site{}} }

func (r *stubSiteRepo) Create(_ context.Context, s *entity.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sites[s.ID] = &cp
	return nil
}

func (r *stubSiteRepo) GetByID(_ context.Context, id string) (*entity.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sites[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *stubSiteRepo) Update(_ context.Context, s *entity.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sites[s.ID] = &cp
	return nil
}

func (r *stubSiteRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sites, id)
	return nil
}

func (r *stubSiteRepo) List(_ context.Context, _ string) ([]*entity.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Site, 0, len(r.sites))
	for _, s := range r.sites {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubSiteRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sites)), nil
}

func (r *stubSiteRepo) ListNames(ctx context.Context) ([]string, error) {
	all, _ := r.List(ctx, "")
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name)
	}
	return names, nil
}

type stubItemRepo struct {
	mu           sync.Mutex
	deletedSites []string
}

func (r *stubItemRepo) Create(context.Context, *entity.Item) error          { return nil }
func (r *stubItemRepo) GetByID(context.Context, string) (*entity.Item, error) { return nil, nil }
func (r *stubItemRepo) Update(context.Context, *entity.Item) error          { return nil }
func (r *stubItemRepo) Delete(context.Context, string) error                { return nil }
func (r *stubItemRepo) IncrementQuantity(context.Context, string, int64) (*entity.Item, error) {
	return nil, domain.ErrNotFound
}
func (r *stubItemRepo) GetBySite(context.Context, string, string) (*entity.Item, error) {
	return nil, nil
}
func (r *stubItemRepo) FindByLineage(context.Context, string, string, string) (*entity.Item, error) {
	return nil, nil
}
func (r *stubItemRepo) FindByNameAndSite(context.Context, string, string) (*entity.Item, error) {
	return nil, nil
}
func (r *stubItemRepo) ListDistinctByName(context.Context) ([]*entity.Item, error) { return nil, nil }
func (r *stubItemRepo) ListBySite(context.Context, string) ([]*entity.Item, error) { return nil, nil }
func (r *stubItemRepo) SearchByName(context.Context, string) ([]*entity.Item, error) {
	return nil, nil
}
func (r *stubItemRepo) ListPage(context.Context, repository.ItemPageFilter) ([]*entity.Item, int64, error) {
	return nil, 0, nil
}
func (r *stubItemRepo) CountByName(context.Context, string) (int64, error)  { return 0, nil }
func (r *stubItemRepo) CountDistinctNames(context.Context) (int64, error)   { return 0, nil }
func (r *stubItemRepo) TotalQuantity(context.Context) (int64, error)        { return 0, nil }
func (r *stubItemRepo) TotalQuantityBySite(context.Context, string) (int64, error) {
	return 0, nil
}
func (r *stubItemRepo) DeleteBySite(_ context.Context, siteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletedSites = append(r.deletedSites, siteID)
	return nil
}

type stubLedgerRepo struct {
	mu      sync.Mutex
	entries []*entity.LedgerEntry
}

func (r *stubLedgerRepo) Create(_ context.Context, e *entity.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.entries = append(r.entries, &cp)
	return nil
}
func (r *stubLedgerRepo) List(context.Context) ([]*entity.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.LedgerEntry(nil), r.entries...), nil
}
func (r *stubLedgerRepo) ListByFilter(context.Context, repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	return nil, nil
}
func (r *stubLedgerRepo) ListByToSite(context.Context, string) ([]*entity.LedgerEntry, error) {
	return nil, nil
}

type stubUserRepo struct{}

func (stubUserRepo) Create(context.Context, *entity.User) error { return nil }
func (stubUserRepo) GetByID(context.Context, string) (*entity.User, error) {
	return nil, nil
}
func (stubUserRepo) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, nil
}

type spyColumns struct {
	mu    sync.Mutex
	added []string
}

func (p *spyColumns) EnsureTimeline(context.Context, string, []string) error { return nil }
func (p *spyColumns) AppendSnapshotRow(context.Context, string, int64, []string) error {
	return nil
}
func (p *spyColumns) RecordTransfer(context.Context, string, []string, string, string, int64) error {
	return nil
}
func (p *spyColumns) AddSiteColumn(_ context.Context, siteName string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.added = append(p.added, siteName)
	return nil
}
func (p *spyColumns) RemoveTimeline(context.Context, string) error { return nil }

type siteFixture struct {
	repo     *stubSiteRepo
	items    *stubItemRepo
	ledger   *stubLedgerRepo
	proj     *spyColumns
	recorder *inventory.Recorder
	uc       *SiteUseCase
}

func newSiteFixture(t *testing.T) *siteFixture {
	t.Helper()
	f := &siteFixture{
		repo:   newStubSiteRepo(),
		items:  &stubItemRepo{},
		ledger: &stubLedgerRepo{},
		proj:   &spyColumns{},
	}
	f.recorder = inventory.NewRecorder(f.ledger, f.repo, stubUserRepo{}, f.items, f.proj, "Store Room", logger.Nop())
	f.uc = NewSiteUseCase(f.repo, f.recorder)
	return f
}

func TestSiteCreate_DisparaColumnaNueva(t *testing.T) {
	f := newSiteFixture(t)

	site, err := f.uc.Create(context.Background(), dto.CreateSiteRequest{Name: "Obra Norte"}, "user-1")
	require.NoError(t, err)
	f.recorder.Wait()

	assert.NotEmpty(t, site.ID)
	assert.Equal(t, []string{"Obra Norte"}, f.proj.added,
		"crear un sitio añade su columna a todas las líneas de tiempo")
	assert.Len(t, f.ledger.entries, 1, "la creación queda en el libro de auditoría")
}

func TestSiteCreate_ReservaNoEsColumnaDeSitio(t *testing.T) {
	f := newSiteFixture(t)

	_, err := f.uc.Create(context.Background(), dto.CreateSiteRequest{Name: "Store Room"}, "user-1")
	require.NoError(t, err)
	f.recorder.Wait()

	assert.Empty(t, f.proj.added, "la reserva es la columna central, no una columna de sitio")
}

func TestSiteDelete_ConEncargadoFalla(t *testing.T) {
	f := newSiteFixture(t)
	ctx := context.Background()
	site, err := f.uc.Create(ctx, dto.CreateSiteRequest{Name: "Obra Norte", ManagerID: "user-9"}, "user-1")
	require.NoError(t, err)

	err = f.uc.Delete(ctx, site.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrConflict, "un sitio con encargado exige reasignación previa")

	got, _ := f.repo.GetByID(ctx, site.ID)
	assert.NotNil(t, got, "el sitio sigue existiendo")
}

func TestSiteDelete_LimpiaItemsEnSegundoPlano(t *testing.T) {
	f := newSiteFixture(t)
	ctx := context.Background()
	site, err := f.uc.Create(ctx, dto.CreateSiteRequest{Name: "Obra Norte"}, "user-1")
	require.NoError(t, err)

	require.NoError(t, f.uc.Delete(ctx, site.ID, "user-1"))
	f.recorder.Wait()

	assert.Equal(t, []string{site.ID}, f.items.deletedSites,
		"los registros de ítems del sitio se limpian tras responder")
}

func TestSiteDelete_Inexistente(t *testing.T) {
	f := newSiteFixture(t)
	err := f.uc.Delete(context.Background(), "no-existe", "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSiteUpdate_CambiaCampos(t *testing.T) {
	f := newSiteFixture(t)
	ctx := context.Background()
	site, err := f.uc.Create(ctx, dto.CreateSiteRequest{Name: "Obra Norte"}, "user-1")
	require.NoError(t, err)

	newName := "Obra Norte II"
	newManager := "user-5"
	updated, err := f.uc.Update(ctx, site.ID, dto.UpdateSiteRequest{Name: &newName, ManagerID: &newManager}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "Obra Norte II", updated.Name)
	assert.Equal(t, "user-5", updated.ManagerID)
}
