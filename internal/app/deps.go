package app

import (
	"context"
	"fmt"

	"github.com/savlagood/friendgraph/internal/config"
	"github.com/savlagood/friendgraph/internal/db"
	"github.com/savlagood/friendgraph/internal/graph"
	"github.com/savlagood/friendgraph/internal/handlers"
	"github.com/savlagood/friendgraph/internal/repositories"
	"github.com/savlagood/friendgraph/internal/snapshot"
	"github.com/savlagood/friendgraph/internal/storage"
)

// openStore selects the store driver named by the configuration. The returned
// function releases any resources held by the store.
func openStore(ctx context.Context, cfg config.Config) (repositories.Store, func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		return repositories.NewInMemoryStore(), func() {}, nil
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store %q", cfg.Store)
	}
}

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(store repositories.Store) handlers.Dependencies {
	return handlers.Dependencies{
		Users: store,
		Graph: graph.NewEngine(store),
	}
}

func buildExporter(ctx context.Context, store repositories.Store, cfg config.Config) (snapshot.Exporter, error) {
	objects, err := storage.NewS3Storage(ctx, cfg.Snapshots.ObjectStore)
	if err != nil {
		return snapshot.Exporter{}, fmt.Errorf("configure snapshot storage: %w", err)
	}

	return snapshot.Exporter{
		Store:   store,
		Objects: objects,
		Prefix:  cfg.Snapshots.Prefix,
	}, nil
}
