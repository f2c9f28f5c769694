package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/inventario-obras/internal/domain/entity"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// ledgerDoc documento BSON de una entrada del libro (colección "transactions").
type ledgerDoc struct {
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	ItemID      string    `bson:"itemId,omitempty"`
	ItemName    string    `bson:"itemName,omitempty"`
	Quantity    int64     `bson:"quantity,omitempty"`
	FromSiteID  string    `bson:"fromSite,omitempty"`
	ToSiteID    string    `bson:"toSite,omitempty"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func toLedgerDoc(e *entity.LedgerEntry) *ledgerDoc {
	return &ledgerDoc{
		ID:          e.ID,
		UserID:      e.UserID,
		ItemID:      e.ItemID,
		ItemName:    e.ItemName,
		Quantity:    e.Quantity,
		FromSiteID:  e.FromSiteID,
		ToSiteID:    e.ToSiteID,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func (d *ledgerDoc) toEntity() *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:          d.ID,
		UserID:      d.UserID,
		ItemID:      d.ItemID,
		ItemName:    d.ItemName,
		Quantity:    d.Quantity,
		FromSiteID:  d.FromSiteID,
		ToSiteID:    d.ToSiteID,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

// LedgerRepo implementación de LedgerRepository sobre MongoDB.
// Solo InsertOne y Find: las entradas jamás se actualizan ni borran.
type LedgerRepo struct {
	coll *mongo.Collection
}

// NewLedgerRepository construye el adaptador del libro de auditoría.
func NewLedgerRepository(db *mongo.Database) *LedgerRepo {
	return &LedgerRepo{coll: db.Collection(collLedger)}
}

// Create inserta la entrada (append-only).
func (r *LedgerRepo) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	if _, err := r.coll.InsertOne(ctx, toLedgerDoc(entry)); err != nil {
		return fmt.Errorf("insertar entrada del libro: %w", err)
	}
	return nil
}

// List devuelve todas las entradas, de la más reciente a la más antigua.
func (r *LedgerRepo) List(ctx context.Context) ([]*entity.LedgerEntry, error) {
	return r.find(ctx, bson.M{})
}

// ListByFilter consulta con filtros opcionales.
func (r *LedgerRepo) ListByFilter(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	filter := bson.M{}
	if f.FromSiteID != "" {
		filter["fromSite"] = f.FromSiteID
	}
	if f.ToSiteID != "" {
		filter["toSite"] = f.ToSiteID
	}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.ItemName != "" {
		filter["itemName"] = f.ItemName
	}
	if f.From != nil || f.To != nil {
		dateRange := bson.M{}
		if f.From != nil {
			dateRange["$gte"] = *f.From
		}
		if f.To != nil {
			dateRange["$lte"] = *f.To
		}
		filter["createdAt"] = dateRange
	}
	return r.find(ctx, filter)
}

// ListByToSite devuelve las entradas con destino en el sitio.
func (r *LedgerRepo) ListByToSite(ctx context.Context, siteID string) ([]*entity.LedgerEntry, error) {
	return r.find(ctx, bson.M{"toSite": siteID})
}

func (r *LedgerRepo) find(ctx context.Context, filter bson.M) ([]*entity.LedgerEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("consultar libro de auditoría: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []ledgerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decodificar entradas: %w", err)
	}
	entries := make([]*entity.LedgerEntry, 0, len(docs))
	for i := range docs {
		entries = append(entries, docs[i].toEntity())
	}
	return entries, nil
}
