package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-obras/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Nombres de colecciones.
const (
	collItems  = "items"
	collSites  = "worksites"
	collLedger = "transactions"
	collUsers  = "users"
)

// Connect abre la conexión a MongoDB y devuelve la base de datos de la app.
// El almacén documental es el recurso mutable compartido: la atomicidad por
// documento de sus updates es la exclusividad por registro que asume el
// coordinador de transferencias.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Database, func(), error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(25).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("conectar a MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	closeFn := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}
	return client.Database(cfg.Database), closeFn, nil
}
