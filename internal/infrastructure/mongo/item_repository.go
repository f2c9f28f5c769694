package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/inventario-obras/internal/domain"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// itemDoc documento BSON de un ítem (esquema de la colección "items").
type itemDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"itemName"`
	Category     string    `bson:"itemCategory"`
	SubCategory  string    `bson:"itemSubCategory"`
	Price        string    `bson:"pricePerItem"`
	Quantity     int64     `bson:"quantity"`
	SiteID       string    `bson:"workSiteId"`
	SiteName     string    `bson:"workSite"`
	OriginSiteID string    `bson:"fromSite"`
	Image        string    `bson:"image,omitempty"`
	LastUpdated  time.Time `bson:"lastUpdated"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func toItemDoc(i *entity.Item) *itemDoc {
	return &itemDoc{
		ID:           i.ID,
		Name:         i.Name,
		Category:     i.Category,
		SubCategory:  i.SubCategory,
		Price:        i.Price.String(),
		Quantity:     i.Quantity,
		SiteID:       i.SiteID,
		SiteName:     i.SiteName,
		OriginSiteID: i.OriginSiteID,
		Image:        i.Image,
		LastUpdated:  i.LastUpdated,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

func (d *itemDoc) toEntity() *entity.Item {
	price, _ := decimal.NewFromString(d.Price)
	return &entity.Item{
		ID:           d.ID,
		Name:         d.Name,
		Category:     d.Category,
		SubCategory:  d.SubCategory,
		Price:        price,
		Quantity:     d.Quantity,
		SiteID:       d.SiteID,
		SiteName:     d.SiteName,
		OriginSiteID: d.OriginSiteID,
		Image:        d.Image,
		LastUpdated:  d.LastUpdated,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ItemRepo implementación de ItemRepository sobre MongoDB.
type ItemRepo struct {
	coll *mongo.Collection
}

// NewItemRepository construye el adaptador de ítems.
func NewItemRepository(db *mongo.Database) *ItemRepo {
	return &ItemRepo{coll: db.Collection(collItems)}
}

// Create inserta un registro nuevo.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	if _, err := r.coll.InsertOne(ctx, toItemDoc(item)); err != nil {
		return fmt.Errorf("insertar ítem: %w", err)
	}
	return nil
}

// GetByID obtiene un registro por ID; nil si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// Update reemplaza el documento completo.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": item.ID}, toItemDoc(item))
	if err != nil {
		return fmt.Errorf("actualizar ítem: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el registro; ErrNotFound si no existe.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("eliminar ítem: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementQuantity aplica el delta con guarda de no-negatividad en un único
// findAndModify: el filtro exige quantity >= -delta en los decrementos, de modo
// que el documento nunca queda negativo y los updates concurrentes sobre el mismo
// registro se serializan por la atomicidad por documento de MongoDB.
func (r *ItemRepo) IncrementQuantity(ctx context.Context, id string, delta int64) (*entity.Item, error) {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	now := time.Now()
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"lastUpdated": now, "updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc itemDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toEntity(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("incrementar cantidad: %w", err)
	}
	// Distinguir "no existe" de "la guarda rechazó el decremento".
	n, countErr := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if countErr != nil {
		return nil, fmt.Errorf("incrementar cantidad: %w", countErr)
	}
	if n == 0 {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInvalidQuantity
}

// GetBySite carga el registro (id, sitio); nil si no existe en ese sitio.
func (r *ItemRepo) GetBySite(ctx context.Context, id, siteID string) (*entity.Item, error) {
	return r.findOne(ctx, bson.M{"_id": id, "workSiteId": siteID})
}

// FindByLineage busca por la clave compuesta (nombre, sitio, origen).
func (r *ItemRepo) FindByLineage(ctx context.Context, name, siteID, originSiteID string) (*entity.Item, error) {
	return r.findOne(ctx, bson.M{"itemName": name, "workSiteId": siteID, "fromSite": originSiteID})
}

// FindByNameAndSite busca por (nombre, sitio) ignorando el linaje.
func (r *ItemRepo) FindByNameAndSite(ctx context.Context, name, siteID string) (*entity.Item, error) {
	return r.findOne(ctx, bson.M{"itemName": name, "workSiteId": siteID})
}

// ListDistinctByName devuelve un documento por nombre de ítem, ordenado por nombre.
func (r *ItemRepo) ListDistinctByName(ctx context.Context) ([]*entity.Item, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$itemName"},
			{Key: "doc", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
		}}},
		bson.D{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$doc"}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "itemName", Value: 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("agregar ítems distintos: %w", err)
	}
	return decodeItems(ctx, cursor)
}

// ListBySite lista los registros de un sitio.
func (r *ItemRepo) ListBySite(ctx context.Context, siteID string) ([]*entity.Item, error) {
	return r.findMany(ctx, bson.M{"workSiteId": siteID}, nil)
}

// SearchByName busca por nombre con regex case-insensitive.
func (r *ItemRepo) SearchByName(ctx context.Context, search string) ([]*entity.Item, error) {
	filter := bson.M{"itemName": primitive.Regex{Pattern: search, Options: "i"}}
	return r.findMany(ctx, filter, nil)
}

// ListPage lista registros con filtros y paginación, más el total de coincidencias.
func (r *ItemRepo) ListPage(ctx context.Context, f repository.ItemPageFilter) ([]*entity.Item, int64, error) {
	filter := bson.M{}
	if f.SiteID != "" {
		filter["workSiteId"] = f.SiteID
	}
	if f.OriginSiteID != "" {
		filter["fromSite"] = f.OriginSiteID
	}
	if f.Name != "" {
		filter["itemName"] = f.Name
	} else if f.Search != "" {
		filter["itemName"] = primitive.Regex{Pattern: f.Search, Options: "i"}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("contar ítems: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetSkip(int64(f.Offset)).
		SetLimit(int64(f.Limit))
	items, err := r.findMany(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountByName cuenta los registros con ese nombre de ítem.
func (r *ItemRepo) CountByName(ctx context.Context, name string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"itemName": name})
	if err != nil {
		return 0, fmt.Errorf("contar por nombre: %w", err)
	}
	return n, nil
}

// CountDistinctNames cuenta los nombres de ítem distintos.
func (r *ItemRepo) CountDistinctNames(ctx context.Context) (int64, error) {
	names, err := r.coll.Distinct(ctx, "itemName", bson.M{})
	if err != nil {
		return 0, fmt.Errorf("contar nombres distintos: %w", err)
	}
	return int64(len(names)), nil
}

// TotalQuantity suma las unidades de todo el inventario.
func (r *ItemRepo) TotalQuantity(ctx context.Context) (int64, error) {
	return r.sumQuantity(ctx, bson.D{})
}

// TotalQuantityBySite suma las unidades de un sitio.
func (r *ItemRepo) TotalQuantityBySite(ctx context.Context, siteID string) (int64, error) {
	return r.sumQuantity(ctx, bson.D{{Key: "workSiteId", Value: siteID}})
}

// DeleteBySite elimina todos los registros de un sitio.
func (r *ItemRepo) DeleteBySite(ctx context.Context, siteID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"workSiteId": siteID}); err != nil {
		return fmt.Errorf("eliminar ítems del sitio: %w", err)
	}
	return nil
}

func (r *ItemRepo) sumQuantity(ctx context.Context, match bson.D) (int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sumar cantidades: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total int64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("decodificar suma: %w", err)
		}
	}
	return result.Total, nil
}

func (r *ItemRepo) findOne(ctx context.Context, filter bson.M) (*entity.Item, error) {
	var doc itemDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar ítem: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *ItemRepo) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entity.Item, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.coll.Find(ctx, filter, opts)
	} else {
		cursor, err = r.coll.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("listar ítems: %w", err)
	}
	return decodeItems(ctx, cursor)
}

func decodeItems(ctx context.Context, cursor *mongo.Cursor) ([]*entity.Item, error) {
	defer cursor.Close(ctx)
	var docs []itemDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decodificar ítems: %w", err)
	}
	items := make([]*entity.Item, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toEntity())
	}
	return items, nil
}
