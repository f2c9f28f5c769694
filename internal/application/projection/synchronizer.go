package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-obras/internal/domain"
	domproj "github.com/jhoicas/inventario-obras/internal/domain/projection"
	"github.com/jhoicas/inventario-obras/pkg/logger"
)

// Synchronizer mantiene la proyección externa: una línea de tiempo por nombre de
// ítem, con una columna por sitio conocido. Es el único escritor de la proyección.
// Solo lee la última fila para arrastrar valores; nunca decide corrección leyendo
// sus propias filas. La línea de tiempo de cada ítem es un destino de append
// independiente: operaciones sobre ítems distintos no contienden.
type Synchronizer struct {
	client  SheetClient
	reserve string // nombre del sitio reserva (columna central)
	log     *logger.Logger
	now     func() time.Time
}

// NewSynchronizer construye el sincronizador.
func NewSynchronizer(client SheetClient, reserveName string, log *logger.Logger) *Synchronizer {
	return &Synchronizer{
		client:  client,
		reserve: reserveName,
		log:     log.Component("projection"),
		now:     time.Now,
	}
}

// EnsureTimeline crea la línea de tiempo del ítem con su encabezado
// [Date, Time, <reserva>, ...sitios] si aún no existe. Idempotente: si ya
// existe no hace nada.
func (s *Synchronizer) EnsureTimeline(ctx context.Context, itemName string, siteNames []string) error {
	tabs, err := s.client.ListTabs(ctx)
	if err != nil {
		return fmt.Errorf("listar pestañas: %w", err)
	}
	for _, t := range tabs {
		if t == itemName {
			return nil
		}
	}
	if err := s.client.CreateTab(ctx, itemName); err != nil {
		return fmt.Errorf("crear pestaña %q: %w", itemName, err)
	}
	header := domproj.Header(s.reserve, siteNames)
	if err := s.client.UpdateHeader(ctx, itemName, header); err != nil {
		return fmt.Errorf("escribir encabezado de %q: %w", itemName, err)
	}
	return nil
}

// AppendSnapshotRow añade una fila de snapshot: actualiza la columna central y
// arrastra sin cambios el último valor de cada columna de sitio. La proyección es
// una serie temporal, no una tabla mutable: cada cambio de estado es una fila nueva.
func (s *Synchronizer) AppendSnapshotRow(ctx context.Context, itemName string, centralQuantity int64, siteNames []string) error {
	if err := s.EnsureTimeline(ctx, itemName, siteNames); err != nil {
		return err
	}
	last, err := s.lastRow(ctx, itemName)
	if err != nil {
		return err
	}
	sites := domproj.CarryForward(last, len(siteNames))
	row := domproj.FormatRow(s.now(), centralQuantity, sites)
	if err := s.client.AppendRow(ctx, itemName, row); err != nil {
		return fmt.Errorf("añadir fila a %q: %w", itemName, err)
	}
	return nil
}

// RecordTransfer añade una fila que refleja una transferencia: resta en el sitio
// origen, suma en el destino (piso en cero) y ajusta la columna central cuando un
// extremo es la reserva. Las demás columnas se arrastran sin cambios.
func (s *Synchronizer) RecordTransfer(ctx context.Context, itemName string, siteNames []string, fromSite, toSite string, quantity int64) error {
	if err := s.EnsureTimeline(ctx, itemName, siteNames); err != nil {
		return err
	}
	last, err := s.lastRow(ctx, itemName)
	if err != nil {
		return err
	}
	central := domproj.CentralValue(last)
	sites := domproj.CarryForward(last, len(siteNames))
	central, sites = domproj.ApplyTransfer(central, sites, siteNames, s.reserve, fromSite, toSite, quantity)
	row := domproj.FormatRow(s.now(), central, sites)
	if err := s.client.AppendRow(ctx, itemName, row); err != nil {
		return fmt.Errorf("añadir fila a %q: %w", itemName, err)
	}
	return nil
}

// AddSiteColumn añade la columna del sitio nuevo a TODAS las líneas de tiempo:
// amplía el encabezado y añade una fila con la última fila rellenada y un cero en
// la columna nueva. Debe aplicarse de forma uniforme o la proyección queda
// inconsistente; un fallo en una línea de tiempo no detiene las demás.
// Idempotente por línea de tiempo: si el encabezado ya contiene el sitio, se salta.
func (s *Synchronizer) AddSiteColumn(ctx context.Context, siteName string) error {
	tabs, err := s.client.ListTabs(ctx)
	if err != nil {
		return fmt.Errorf("listar pestañas: %w", err)
	}
	var failed int
	for _, tab := range tabs {
		if err := s.addColumnToTimeline(ctx, tab, siteName); err != nil {
			failed++
			s.log.Warn().Err(err).Str("timeline", tab).Str("site", siteName).
				Msg("no se pudo añadir la columna del sitio a la línea de tiempo")
		}
	}
	if failed > 0 {
		return fmt.Errorf("columna %q: %d de %d líneas de tiempo fallaron", siteName, failed, len(tabs))
	}
	return nil
}

func (s *Synchronizer) addColumnToTimeline(ctx context.Context, tab, siteName string) error {
	header, err := s.client.Header(ctx, tab)
	if err != nil {
		return fmt.Errorf("leer encabezado: %w", err)
	}
	for _, col := range header {
		if col == siteName {
			return nil // ya tiene la columna
		}
	}
	header = append(header, siteName)
	if err := s.client.UpdateHeader(ctx, tab, header); err != nil {
		return fmt.Errorf("actualizar encabezado: %w", err)
	}
	last, err := s.lastRow(ctx, tab)
	if err != nil {
		return err
	}
	row := domproj.PadRow(last, len(header))
	if err := s.client.AppendRow(ctx, tab, row); err != nil {
		return fmt.Errorf("añadir fila rellenada: %w", err)
	}
	return nil
}

// RemoveTimeline elimina la línea de tiempo completa del ítem. Si no existe,
// avisa y no hace nada: las peticiones de borrado pueden competir con creaciones
// fallidas y eso no es un error.
func (s *Synchronizer) RemoveTimeline(ctx context.Context, itemName string) error {
	if err := s.client.DeleteTab(ctx, itemName); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Str("timeline", itemName).Msg("línea de tiempo inexistente, se omite el borrado")
			return nil
		}
		return fmt.Errorf("eliminar pestaña %q: %w", itemName, err)
	}
	return nil
}

// lastRow devuelve la última fila de datos de la línea de tiempo (nil si no hay).
func (s *Synchronizer) lastRow(ctx context.Context, tab string) ([]string, error) {
	rows, err := s.client.Rows(ctx, tab)
	if err != nil {
		return nil, fmt.Errorf("leer filas de %q: %w", tab, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[len(rows)-1], nil
}
