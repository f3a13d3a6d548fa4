package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrops-br/storefront-api/internal/domain"
	"github.com/mrops-br/storefront-api/internal/infrastructure/config"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/mongodb"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/postgres"
	"go.opentelemetry.io/otel/trace"
)

// Stores bundles the repositories of one backing store together with the
// function that releases its connection
type Stores struct {
	Products domain.ProductRepository
	Users    domain.UserRepository
	Contacts domain.ContactRepository

	close func(ctx context.Context) error
}

// Close releases the underlying connection
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the store selected by cfg.Driver
func Open(ctx context.Context, cfg *config.StoreConfig, tracer trace.Tracer, logger *slog.Logger) (*Stores, error) {
	logger.Info("Opening store", slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.DriverMemory, "":
		return &Stores{
			Products: memory.NewProductRepository(tracer, logger),
			Users:    memory.NewUserRepository(tracer, logger),
			Contacts: memory.NewContactRepository(tracer, logger),
		}, nil

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Products: mongodb.NewProductRepository(client, tracer, logger),
			Users:    mongodb.NewUserRepository(client, tracer, logger),
			Contacts: mongodb.NewContactRepository(client, tracer, logger),
			close:    client.Close,
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.PostgresURL, logger)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Products: postgres.NewProductRepository(pool, tracer, logger),
			Users:    postgres.NewUserRepository(pool, tracer, logger),
			Contacts: postgres.NewContactRepository(pool, tracer, logger),
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
