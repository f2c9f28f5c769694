package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-obras/internal/domain"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
	"github.com/jhoicas/inventario-obras/pkg/logger"
)

// LineagePolicy decide con qué clave se busca el registro destino de una
// transferencia. Política de producto: los envíos entre obras conservan el linaje
// (stock llegado de A a C se lleva separado del llegado de B a C, para que la
// proyección pueda atribuir procedencia); los envíos a la reserva central lo
// descartan y se funden en un único registro por nombre.
type LineagePolicy int

const (
	// KeepLineage busca el destino por (nombre, sitio, origen).
	KeepLineage LineagePolicy = iota
	// DropLineage busca el destino por (nombre, sitio), ignorando el origen.
	DropLineage
)

// TransferInput entrada de una transferencia entre sitios.
type TransferInput struct {
	ItemID     string
	FromSiteID string
	ToSiteID   string
	Quantity   int64
	UserID     string
}

// TransferResult ambos registros actualizados, devueltos de forma síncrona.
type TransferResult struct {
	From *entity.Item
	To   *entity.Item
}

// TransferUseCase coordina movimientos de stock entre sitios. La sección crítica
// (decremento en origen, alta/incremento en destino) es síncrona contra el almacén
// autoritativo; el libro de auditoría y la proyección se actualizan después en
// segundo plano vía Recorder y nunca afectan el resultado.
type TransferUseCase struct {
	items    repository.ItemRepository
	sites    repository.SiteRepository
	recorder *Recorder
	log      *logger.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(items repository.ItemRepository, sites repository.SiteRepository, recorder *Recorder, log *logger.Logger) *TransferUseCase {
	return &TransferUseCase{items: items, sites: sites, recorder: recorder, log: log.Component("transfer")}
}

// Send transfiere unidades entre dos sitios conservando el linaje en el destino.
func (uc *TransferUseCase) Send(ctx context.Context, in TransferInput) (*TransferResult, error) {
	return uc.transfer(ctx, in, KeepLineage)
}

// SendToReserve transfiere unidades hacia la reserva central: el destino se
// resuelve sin linaje, de modo que todo lo devuelto se funde en un único registro.
func (uc *TransferUseCase) SendToReserve(ctx context.Context, in TransferInput) (*TransferResult, error) {
	return uc.transfer(ctx, in, DropLineage)
}

// ReserveSiteID resuelve el ID del sitio de reserva por su nombre configurado.
// ErrNotFound si nadie ha creado todavía el sitio de reserva.
func (uc *TransferUseCase) ReserveSiteID(ctx context.Context, reserveName string) (string, error) {
	if reserveName == "" {
		return "", domain.ErrInvalidInput
	}
	sites, err := uc.sites.List(ctx, reserveName)
	if err != nil {
		return "", err
	}
	for _, s := range sites {
		if s.Name == reserveName {
			return s.ID, nil
		}
	}
	return "", domain.ErrNotFound
}

func (uc *TransferUseCase) transfer(ctx context.Context, in TransferInput, policy LineagePolicy) (*TransferResult, error) {
	if in.ItemID == "" || in.FromSiteID == "" || in.ToSiteID == "" || in.UserID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromSiteID == in.ToSiteID {
		return nil, domain.ErrInvalidInput
	}

	// El sitio destino se valida antes de tocar el almacén: ninguna mutación
	// parcial si la petición es inválida.
	toSite, err := uc.sites.GetByID(ctx, in.ToSiteID)
	if err != nil {
		return nil, err
	}
	if toSite == nil {
		return nil, domain.ErrNotFound
	}

	source, err := uc.items.GetBySite(ctx, in.ItemID, in.FromSiteID)
	if err != nil {
		return nil, err
	}
	if source == nil || source.Quantity < in.Quantity {
		return nil, domain.ErrInsufficientStock
	}

	// Decremento primero: una transferencia nunca crea stock de la nada. La
	// guarda de no-negatividad en IncrementQuantity es el único punto de
	// aplicación y protege contra el doble decremento bajo reintentos.
	updatedSource, err := uc.items.IncrementQuantity(ctx, source.ID, -in.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuantity) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, err
	}

	dest, err := uc.resolveDestination(ctx, source, toSite, in.FromSiteID, policy)
	if err != nil {
		uc.compensate(ctx, source.ID, in.Quantity)
		return nil, err
	}

	// Incrementos concurrentes sobre el mismo registro destino quedan
	// serializados por la atomicidad por documento de IncrementQuantity.
	updatedDest, err := uc.items.IncrementQuantity(ctx, dest.ID, in.Quantity)
	if err != nil {
		uc.compensate(ctx, source.ID, in.Quantity)
		return nil, err
	}

	uc.recorder.TransferRecorded(entity.Mutation{
		Kind:          entity.MutationTransfer,
		ItemID:        source.ID,
		ItemName:      source.Name,
		QuantityDelta: in.Quantity,
		NewQuantity:   updatedDest.Quantity,
		FromSiteID:    in.FromSiteID,
		ToSiteID:      in.ToSiteID,
		UserID:        in.UserID,
	})

	return &TransferResult{From: updatedSource, To: updatedDest}, nil
}

// resolveDestination busca el registro destino según la política de linaje; si no
// existe lo crea con cantidad cero copiando los atributos estáticos del registro
// fuente. El incremento posterior pasa siempre por IncrementQuantity.
func (uc *TransferUseCase) resolveDestination(ctx context.Context, source *entity.Item, toSite *entity.Site, fromSiteID string, policy LineagePolicy) (*entity.Item, error) {
	var dest *entity.Item
	var err error
	switch policy {
	case DropLineage:
		dest, err = uc.items.FindByNameAndSite(ctx, source.Name, toSite.ID)
	default:
		dest, err = uc.items.FindByLineage(ctx, source.Name, toSite.ID, fromSiteID)
	}
	if err != nil {
		return nil, err
	}
	if dest != nil {
		return dest, nil
	}

	now := time.Now()
	origin := fromSiteID
	if policy == DropLineage {
		origin = ""
	}
	dest = &entity.Item{
		ID:           uuid.New().String(),
		Name:         source.Name,
		Category:     source.Category,
		SubCategory:  source.SubCategory,
		Price:        source.Price,
		Quantity:     0,
		SiteID:       toSite.ID,
		SiteName:     toSite.Name,
		OriginSiteID: origin,
		Image:        source.Image,
		LastUpdated:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.items.Create(ctx, dest); err != nil {
		return nil, err
	}
	return dest, nil
}

// compensate repone el decremento del origen cuando el lado destino falló.
// Mejor esfuerzo: si también falla, queda constancia en el log.
func (uc *TransferUseCase) compensate(ctx context.Context, sourceID string, quantity int64) {
	if _, err := uc.items.IncrementQuantity(ctx, sourceID, quantity); err != nil {
		uc.log.Error().Err(err).Str("item_id", sourceID).Int64("quantity", quantity).
			Msg("no se pudo reponer el decremento del origen tras un fallo en destino")
	}
}
