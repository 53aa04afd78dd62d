// Package storage persists scraped product records. Sinks are
// optional; the zero configuration stores nothing.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sellermate/prowl/internal/config"
	"github.com/sellermate/prowl/internal/types"
)

// Storage is a sink for finished product records.
type Storage interface {
	Name() string
	Store(ctx context.Context, rec *types.ProductRecord) error
	Close(ctx context.Context) error
}

// New builds the sink named by the configuration. Type "none" returns
// a discard sink that accepts everything and keeps nothing.
func New(ctx context.Context, cfg *config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Type {
	case "", config.StorageNone:
		return discardStorage{}, nil
	case config.StorageJSON:
		return NewFileStorage(cfg.OutputPath, logger)
	case config.StorageMongoDB:
		return NewMongoStorage(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

type discardStorage struct{}

func (discardStorage) Name() string                                      { return "none" }
func (discardStorage) Store(context.Context, *types.ProductRecord) error { return nil }
func (discardStorage) Close(context.Context) error                       { return nil }
