package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ad-intel/internal/catalog"
	"github.com/sells-group/ad-intel/internal/llm"
	"github.com/sells-group/ad-intel/internal/pipeline"
	"github.com/sells-group/ad-intel/internal/store"
	"github.com/sells-group/ad-intel/pkg/jina"
)

// pipelineEnv holds everything the run and batch commands need.
type pipelineEnv struct {
	Store    store.Store // nil when store.driver is "none"
	Catalog  *catalog.Set
	Warnings []string
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens the configured record store. The "none" driver runs
// without persistence or a validation cache.
func initStore(ctx context.Context) (store.Store, error) {
	if cfg.Store.Driver == "none" {
		zap.L().Info("store disabled, records will not be persisted")
		return nil, nil
	}
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL, &store.PoolConfig{
		MaxConns: cfg.Store.MaxConns,
		MinConns: cfg.Store.MinConns,
	})
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

// loadCatalog layers the configured overlay files over the built-in tables.
func loadCatalog() (*catalog.Set, []string, error) {
	set, warnings, err := catalog.Load(catalog.Options{
		EntitiesPath:      cfg.Catalog.EntitiesPath,
		AdvertiserMapPath: cfg.Catalog.AdvertiserMapPath,
		SubscriptionsPath: cfg.Catalog.SubscriptionsPath,
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "load catalog")
	}
	for _, w := range warnings {
		zap.L().Warn("catalog: " + w)
	}
	return set, warnings, nil
}

// initPipeline opens the store, builds the generative and search clients,
// loads the catalog and wires the Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	set, warnings, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	gen, err := llm.FromConfig(cfg)
	if err != nil {
		return nil, eris.Wrap(err, "init generator")
	}

	var search jina.Client
	if cfg.Jina.Key != "" {
		var opts []jina.Option
		if cfg.Jina.SearchBaseURL != "" {
			opts = append(opts, jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL))
		}
		search = jina.NewClient(cfg.Jina.Key, opts...)
	} else {
		zap.L().Debug("ADINTEL_JINA_KEY not set, web validation disabled")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	p, err := pipeline.New(cfg, set, pipeline.Deps{
		Generator: gen,
		Search:    search,
		Store:     st,
		Warnings:  warnings,
	})
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}

	zap.L().Info("pipeline ready",
		zap.Int("entities", set.Entities.Len()),
		zap.Bool("generative", llm.Enabled(gen)),
		zap.Bool("web_validation", search != nil && cfg.Pipeline.WebValidation),
		zap.String("store", cfg.Store.Driver),
	)

	return &pipelineEnv{Store: st, Catalog: set, Warnings: warnings, Pipeline: p}, nil
}
