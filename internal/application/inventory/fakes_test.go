package inventory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/inventario-obras/internal/domain"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria para los tests. La guarda de no-negatividad de
// IncrementQuantity se aplica bajo mutex, igual que el documento atómico
// de MongoDB la aplica por registro.
// ──────────────────────────────────────────────────────────────────────────────

type memItemRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: map[string]*entity.Item{}}
}

func (r *memItemRepo) clone(it *entity.Item) *entity.Item {
	cp := *it
	return &cp
}

func (r *memItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = r.clone(item)
	return nil
}

func (r *memItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return r.clone(it), nil
}

func (r *memItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[item.ID] = r.clone(item)
	return nil
}

func (r *memItemRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memItemRepo) IncrementQuantity(_ context.Context, id string, delta int64) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if it.Quantity+delta < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	it.Quantity += delta
	now := time.Now()
	it.LastUpdated = now
	it.UpdatedAt = now
	return r.clone(it), nil
}

func (r *memItemRepo) GetBySite(_ context.Context, id, siteID string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.SiteID != siteID {
		return nil, nil
	}
	return r.clone(it), nil
}

func (r *memItemRepo) FindByLineage(_ context.Context, name, siteID, originSiteID string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.Name == name && it.SiteID == siteID && it.OriginSiteID == originSiteID {
			return r.clone(it), nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) FindByNameAndSite(_ context.Context, name, siteID string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.Name == name && it.SiteID == siteID {
			return r.clone(it), nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) ListDistinctByName(_ context.Context) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]*entity.Item{}
	for _, it := range r.items {
		if _, ok := seen[it.Name]; !ok {
			seen[it.Name] = r.clone(it)
		}
	}
	out := make([]*entity.Item, 0, len(seen))
	for _, it := range seen {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memItemRepo) ListBySite(_ context.Context, siteID string) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Item
	for _, it := range r.items {
		if it.SiteID == siteID {
			out = append(out, r.clone(it))
		}
	}
	return out, nil
}

func (r *memItemRepo) SearchByName(_ context.Context, search string) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Item
	for _, it := range r.items {
		if strings.Contains(strings.ToLower(it.Name), strings.ToLower(search)) {
			out = append(out, r.clone(it))
		}
	}
	return out, nil
}

func (r *memItemRepo) ListPage(_ context.Context, filter repository.ItemPageFilter) ([]*entity.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Item
	for _, it := range r.items {
		if filter.SiteID != "" && it.SiteID != filter.SiteID {
			continue
		}
		if filter.OriginSiteID != "" && it.OriginSiteID != filter.OriginSiteID {
			continue
		}
		if filter.Name != "" && it.Name != filter.Name {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, r.clone(it))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *memItemRepo) CountByName(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, it := range r.items {
		if it.Name == name {
			n++
		}
	}
	return n, nil
}

func (r *memItemRepo) CountDistinctNames(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := map[string]struct{}{}
	for _, it := range r.items {
		names[it.Name] = struct{}{}
	}
	return int64(len(names)), nil
}

func (r *memItemRepo) TotalQuantity(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, it := range r.items {
		total += it.Quantity
	}
	return total, nil
}

func (r *memItemRepo) TotalQuantityBySite(_ context.Context, siteID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, it := range r.items {
		if it.SiteID == siteID {
			total += it.Quantity
		}
	}
	return total, nil
}

func (r *memItemRepo) DeleteBySite(_ context.Context, siteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, it := range r.items {
		if it.SiteID == siteID {
			delete(r.items, id)
		}
	}
	return nil
}

// all devuelve una copia de todos los registros (solo para aserciones).
func (r *memItemRepo) all() []*entity.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, r.clone(it))
	}
	return out
}

type memSiteRepo struct {
	mu    sync.Mutex
	sites map[string]*entity.Site
	order []string
}

func newMemSiteRepo() *memSiteRepo {
	return &memSiteRepo{sites: map[string]*entity.Site{}}
}

func (r *memSiteRepo) Create(_ context.Context, site *entity.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *site
	r.sites[site.ID] = &cp
	r.order = append(r.order, site.ID)
	return nil
}

func (r *memSiteRepo) GetByID(_ context.Context, id string) (*entity.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sites[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSiteRepo) Update(_ context.Context, site *entity.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sites[site.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *site
	r.sites[site.ID] = &cp
	return nil
}

func (r *memSiteRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sites[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sites, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memSiteRepo) List(_ context.Context, search string) ([]*entity.Site, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Site
	for _, id := range r.order {
		s := r.sites[id]
		if search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(search)) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memSiteRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sites)), nil
}

func (r *memSiteRepo) ListNames(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		names = append(names, r.sites[id].Name)
	}
	return names, nil
}

type memLedgerRepo struct {
	mu      sync.Mutex
	entries []*entity.LedgerEntry
}

func newMemLedgerRepo() *memLedgerRepo { return &memLedgerRepo{} }

func (r *memLedgerRepo) Create(_ context.Context, entry *entity.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memLedgerRepo) List(_ context.Context) ([]*entity.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.LedgerEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		cp := *r.entries[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memLedgerRepo) ListByFilter(ctx context.Context, filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	all, _ := r.List(ctx)
	var out []*entity.LedgerEntry
	for _, e := range all {
		if filter.FromSiteID != "" && e.FromSiteID != filter.FromSiteID {
			continue
		}
		if filter.ToSiteID != "" && e.ToSiteID != filter.ToSiteID {
			continue
		}
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.ItemName != "" && e.ItemName != filter.ItemName {
			continue
		}
		if filter.From != nil && e.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memLedgerRepo) ListByToSite(ctx context.Context, siteID string) ([]*entity.LedgerEntry, error) {
	return r.ListByFilter(ctx, repository.LedgerFilter{ToSiteID: siteID})
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}
