package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/storefront-api/internal/infrastructure/config"
	"github.com/mrops-br/storefront-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestOpenMemory(t *testing.T) {
	stores, err := Open(context.Background(), &config.StoreConfig{Driver: config.DriverMemory},
		noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	assert.IsType(t, &memory.ProductRepository{}, stores.Products)
	assert.IsType(t, &memory.UserRepository{}, stores.Users)
	assert.IsType(t, &memory.ContactRepository{}, stores.Contacts)
	assert.NoError(t, stores.Close(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.StoreConfig{Driver: "sqlite"},
		noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, `unknown store driver "sqlite"`)
}
