package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
	"github.com/jhoicas/inventario-obras/pkg/logger"
)

// Recorder ejecuta el trabajo posterior de cada mutación: la entrada del libro de
// auditoría y la actualización de la proyección externa. Corre en goroutines
// desacopladas de la petición: la operación autoritativa ya respondió al llamador
// y ningún fallo aquí se propaga; se registra en el log y se descarta. El libro y
// la proyección son espejos advisory que pueden atrasarse o perder un evento.
type Recorder struct {
	ledger     repository.LedgerRepository
	sites      repository.SiteRepository
	users      repository.UserRepository
	items      repository.ItemRepository
	projection ProjectionSync
	reserve    string
	log        *logger.Logger
	timeout    time.Duration
	wg         sync.WaitGroup
}

// NewRecorder construye el recorder.
func NewRecorder(
	ledger repository.LedgerRepository,
	sites repository.SiteRepository,
	users repository.UserRepository,
	items repository.ItemRepository,
	projection ProjectionSync,
	reserveName string,
	log *logger.Logger,
) *Recorder {
	return &Recorder{
		ledger:     ledger,
		sites:      sites,
		users:      users,
		items:      items,
		projection: projection,
		reserve:    reserveName,
		log:        log.Component("recorder"),
		timeout:    30 * time.Second,
	}
}

// Wait espera a que termine el trabajo en vuelo (cierre ordenado y tests).
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// dispatch lanza fn en una goroutine con su propio contexto acotado.
// El contexto de la petición HTTP ya no sirve: la respuesta se envió.
func (r *Recorder) dispatch(fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		fn(ctx)
	}()
}

// ItemAdded registra el alta de existencias: entrada en el libro y primera fila
// (o fila de snapshot) en la línea de tiempo del ítem.
func (r *Recorder) ItemAdded(m entity.Mutation) {
	r.dispatch(func(ctx context.Context) {
		desc := describeAdd(m.ItemName, r.siteName(ctx, m.ToSiteID), r.userName(ctx, m.UserID), m.QuantityDelta)
		r.appendLedger(ctx, m, desc)
		sites, ok := r.projectionSites(ctx)
		if !ok {
			return
		}
		if err := r.projection.AppendSnapshotRow(ctx, m.ItemName, m.NewQuantity, sites); err != nil {
			r.log.Warn().Err(err).Str("item", m.ItemName).Msg("fallo de sincronización de la proyección (alta)")
		}
	})
}

// QuantityAdjusted registra un ajuste de cantidad y la fila de snapshot correspondiente.
func (r *Recorder) QuantityAdjusted(m entity.Mutation) {
	r.dispatch(func(ctx context.Context) {
		desc := describeAdjust(m.ItemName, r.siteName(ctx, m.FromSiteID), r.userName(ctx, m.UserID), m.QuantityDelta)
		r.appendLedger(ctx, m, desc)
		r.snapshot(ctx, m)
	})
}

// ItemEdited registra una edición; solo escribe fila de snapshot si cambió la cantidad.
func (r *Recorder) ItemEdited(m entity.Mutation, quantityChanged bool) {
	r.dispatch(func(ctx context.Context) {
		desc := describeEdit(m.ItemName, r.siteName(ctx, m.FromSiteID), r.userName(ctx, m.UserID), m.NewQuantity)
		r.appendLedger(ctx, m, desc)
		if quantityChanged {
			r.snapshot(ctx, m)
		}
	})
}

// TransferRecorded registra una transferencia confirmada: entrada en el libro y
// fila de transferencia en la línea de tiempo (deltas en origen y destino).
func (r *Recorder) TransferRecorded(m entity.Mutation) {
	r.dispatch(func(ctx context.Context) {
		fromName := r.siteName(ctx, m.FromSiteID)
		toName := r.siteName(ctx, m.ToSiteID)
		desc := describeTransfer(m.ItemName, fromName, toName, r.userName(ctx, m.UserID), m.QuantityDelta)
		r.appendLedger(ctx, m, desc)
		sites, ok := r.projectionSites(ctx)
		if !ok {
			return
		}
		if err := r.projection.RecordTransfer(ctx, m.ItemName, sites, fromName, toName, m.QuantityDelta); err != nil {
			r.log.Warn().Err(err).Str("item", m.ItemName).Msg("fallo de sincronización de la proyección (transferencia)")
		}
	})
}

// ItemDeleted registra el borrado; elimina la línea de tiempo solo cuando ya no
// queda ningún otro registro con el mismo nombre.
func (r *Recorder) ItemDeleted(m entity.Mutation) {
	r.dispatch(func(ctx context.Context) {
		desc := describeDelete(m.ItemName, r.siteName(ctx, m.FromSiteID), r.userName(ctx, m.UserID))
		r.appendLedger(ctx, m, desc)
		remaining, err := r.items.CountByName(ctx, m.ItemName)
		if err != nil {
			r.log.Warn().Err(err).Str("item", m.ItemName).Msg("no se pudo contar registros restantes")
			return
		}
		if remaining > 0 {
			return
		}
		if err := r.projection.RemoveTimeline(ctx, m.ItemName); err != nil {
			r.log.Warn().Err(err).Str("item", m.ItemName).Msg("fallo al eliminar la línea de tiempo")
		}
	})
}

// SiteCreated registra la creación del sitio y propaga la columna nueva a todas
// las líneas de tiempo (evolución de esquema de la proyección).
func (r *Recorder) SiteCreated(siteID, siteName, userID string) {
	r.dispatch(func(ctx context.Context) {
		desc := describeSiteCreated(siteName, r.userName(ctx, userID))
		r.appendLedger(ctx, entity.Mutation{Kind: entity.MutationAdd, ToSiteID: siteID, UserID: userID}, desc)
		if siteName == r.reserve {
			return // la reserva ya es la columna central, no es columna de sitio
		}
		if err := r.projection.AddSiteColumn(ctx, siteName); err != nil {
			r.log.Warn().Err(err).Str("site", siteName).Msg("fallo al añadir columna del sitio")
		}
	})
}

// SiteUpdated registra la actualización de un sitio (solo libro de auditoría).
func (r *Recorder) SiteUpdated(siteName, userID string) {
	r.dispatch(func(ctx context.Context) {
		desc := describeSiteUpdated(siteName, r.userName(ctx, userID))
		r.appendLedger(ctx, entity.Mutation{Kind: entity.MutationAdjust, UserID: userID}, desc)
	})
}

// SiteDeleted registra el borrado del sitio y limpia sus registros de ítems
// (limpieza de mejor esfuerzo, desacoplada de la respuesta).
func (r *Recorder) SiteDeleted(siteID, siteName, userID string) {
	r.dispatch(func(ctx context.Context) {
		if err := r.items.DeleteBySite(ctx, siteID); err != nil {
			r.log.Warn().Err(err).Str("site", siteName).Msg("fallo en la limpieza de ítems del sitio")
		}
		desc := describeSiteDeleted(siteName, r.userName(ctx, userID))
		r.appendLedger(ctx, entity.Mutation{Kind: entity.MutationDelete, FromSiteID: siteID, UserID: userID}, desc)
	})
}

// snapshot escribe una fila de snapshot con la cantidad resultante del registro.
func (r *Recorder) snapshot(ctx context.Context, m entity.Mutation) {
	sites, ok := r.projectionSites(ctx)
	if !ok {
		return
	}
	if err := r.projection.AppendSnapshotRow(ctx, m.ItemName, m.NewQuantity, sites); err != nil {
		r.log.Warn().Err(err).Str("item", m.ItemName).Msg("fallo de sincronización de la proyección (snapshot)")
	}
}

// appendLedger inserta la entrada en el libro; nunca falla hacia el llamador.
func (r *Recorder) appendLedger(ctx context.Context, m entity.Mutation, description string) {
	entry := &entity.LedgerEntry{
		ID:          uuid.New().String(),
		UserID:      m.UserID,
		ItemID:      m.ItemID,
		ItemName:    m.ItemName,
		Quantity:    m.QuantityDelta,
		FromSiteID:  m.FromSiteID,
		ToSiteID:    m.ToSiteID,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := r.ledger.Create(ctx, entry); err != nil {
		r.log.Error().Err(err).Str("description", description).Msg("entrada del libro de auditoría perdida")
		return
	}
	r.log.Debug().Str("description", description).Msg("entrada del libro registrada")
}

// projectionSites devuelve los nombres de sitios para las columnas de la
// proyección (el directorio de sitios sin la reserva, que ocupa la columna central).
func (r *Recorder) projectionSites(ctx context.Context) ([]string, bool) {
	names, err := r.sites.ListNames(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("no se pudo leer el directorio de sitios")
		return nil, false
	}
	out := names[:0]
	for _, n := range names {
		if n != r.reserve {
			out = append(out, n)
		}
	}
	return out, true
}

func (r *Recorder) userName(ctx context.Context, id string) string {
	if id == "" {
		return "usuario desconocido"
	}
	u, err := r.users.GetByID(ctx, id)
	if err != nil || u == nil {
		return "usuario desconocido"
	}
	return u.Name
}

func (r *Recorder) siteName(ctx context.Context, id string) string {
	if id == "" {
		return "sitio desconocido"
	}
	s, err := r.sites.GetByID(ctx, id)
	if err != nil || s == nil {
		return "sitio desconocido"
	}
	return s.Name
}
