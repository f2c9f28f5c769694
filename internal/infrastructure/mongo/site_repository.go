package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/inventario-obras/internal/domain"
	"github.com/jhoicas/inventario-obras/internal/domain/entity"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
)

var _ repository.SiteRepository = (*SiteRepo)(nil)

// siteDoc documento BSON de un sitio (colección "worksites").
type siteDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"workSiteName"`
	Address   string    `bson:"address,omitempty"`
	ManagerID string    `bson:"workSiteManager,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toSiteDoc(s *entity.Site) *siteDoc {
	return &siteDoc{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		ManagerID: s.ManagerID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (d *siteDoc) toEntity() *entity.Site {
	return &entity.Site{
		ID:        d.ID,
		Name:      d.Name,
		Address:   d.Address,
		ManagerID: d.ManagerID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// SiteRepo implementación de SiteRepository sobre MongoDB.
type SiteRepo struct {
	coll *mongo.Collection
}

// NewSiteRepository construye el adaptador de sitios.
func NewSiteRepository(db *mongo.Database) *SiteRepo {
	return &SiteRepo{coll: db.Collection(collSites)}
}

// Create inserta un sitio nuevo.
func (r *SiteRepo) Create(ctx context.Context, site *entity.Site) error {
	if _, err := r.coll.InsertOne(ctx, toSiteDoc(site)); err != nil {
		return fmt.Errorf("insertar sitio: %w", err)
	}
	return nil
}

// GetByID obtiene un sitio por ID; nil si no existe.
func (r *SiteRepo) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	var doc siteDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("buscar sitio: %w", err)
	}
	return doc.toEntity(), nil
}

// Update reemplaza el documento completo.
func (r *SiteRepo) Update(ctx context.Context, site *entity.Site) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": site.ID}, toSiteDoc(site))
	if err != nil {
		return fmt.Errorf("actualizar sitio: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el sitio; ErrNotFound si no existe.
func (r *SiteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("eliminar sitio: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista sitios, opcionalmente filtrados por búsqueda en el nombre.
func (r *SiteRepo) List(ctx context.Context, search string) ([]*entity.Site, error) {
	filter := bson.M{}
	if search != "" {
		filter["workSiteName"] = primitive.Regex{Pattern: search, Options: "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listar sitios: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []siteDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decodificar sitios: %w", err)
	}
	sites := make([]*entity.Site, 0, len(docs))
	for i := range docs {
		sites = append(sites, docs[i].toEntity())
	}
	return sites, nil
}

// Count devuelve el número de sitios.
func (r *SiteRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("contar sitios: %w", err)
	}
	return n, nil
}

// ListNames devuelve los nombres de todos los sitios en orden de creación
// (directorio de sitios: fija el orden de las columnas de la proyección).
func (r *SiteRepo) ListNames(ctx context.Context) ([]string, error) {
	sites, err := r.List(ctx, "")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(sites))
	for _, s := range sites {
		names = append(names, s.Name)
	}
	return names, nil
}
