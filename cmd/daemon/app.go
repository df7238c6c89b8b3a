package main

import (
	"context"
	"errors"

	"github.com/songboard/songboard/internal/catalog"
	"github.com/songboard/songboard/internal/config"
	"github.com/songboard/songboard/internal/domain"
	"github.com/songboard/songboard/internal/engine"
	"github.com/songboard/songboard/internal/fetcher"
	"github.com/songboard/songboard/internal/listener"
	"github.com/songboard/songboard/internal/state"
	"github.com/songboard/songboard/internal/theme"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// AppOptions is the full dependency graph, shared between main and the
// graph-validation test.
var AppOptions = fx.Options(
	fx.Provide(
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
		fetcher.NewHTTPFetcher,
		newSource,
		catalog.NewStore,
		newLoader,
		newWatcher,
		state.NewActiveStore,
		fx.Annotate(theme.NewPosterRenderer, fx.As(new(domain.Renderer))),
		newListener,
		engine.NewEngine,
	),
	fx.Invoke(registerHooks),
)

// newSource selects the catalog origin from the configuration flag
func newSource(logger *zap.Logger, cfg domain.Config, httpFetcher *fetcher.HTTPFetcher) domain.Source {
	if cfg.UseRemote() {
		logger.Info("Using remote catalog source", zap.String("url", cfg.RemoteURL()))
		return catalog.NewRemoteSource(httpFetcher, cfg.RemoteURL())
	}
	logger.Info("Using bundled catalog source", zap.String("path", cfg.CatalogPath()))
	return catalog.NewFileSource(cfg.CatalogPath())
}

// newLoader wires the selected source to the store
func newLoader(logger *zap.Logger, source domain.Source, store *catalog.Store) *catalog.Loader {
	return catalog.NewLoader(logger, source, store)
}

// newWatcher reloads the bundled catalog when the file changes on disk
func newWatcher(logger *zap.Logger, cfg domain.Config, loader *catalog.Loader) *catalog.Watcher {
	return catalog.NewWatcher(logger, cfg.CatalogPath(), loader.Reload)
}

// newListener provides the push transport for this platform
func newListener(logger *zap.Logger) domain.Listener {
	return listener.NewDBusListener(logger)
}

// registerHooks sets up application lifecycle hooks
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	cfg domain.Config,
	store *catalog.Store,
	loader *catalog.Loader,
	watcher *catalog.Watcher,
	active *state.ActiveStore,
	pushListener domain.Listener,
	eng *engine.Engine,
) {
	// The run context outlives OnStart; fx cancels its hook context as
	// soon as startup finishes.
	runCtx, cancelRun := context.WithCancel(context.Background())

	// A catalog swap must never leave the active song dangling
	store.OnSwap(active.Revalidate)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Songboard daemon starting")

			// A failed first load is not fatal: the catalog stays empty
			// and a later reload can fill it
			if err := loader.Reload(ctx); err != nil {
				logger.Warn("Initial catalog load failed, starting with empty catalog", zap.Error(err))
			}

			if !cfg.UseRemote() {
				if err := watcher.Start(runCtx); err != nil {
					logger.Warn("Catalog watcher unavailable, reload on file change disabled", zap.Error(err))
				}
			}

			go func() {
				if err := pushListener.Start(runCtx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("Push listener terminated", zap.Error(err))
				}
			}()

			return eng.Start(runCtx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Songboard daemon shutting down")
			cancelRun()

			if err := eng.Stop(ctx); err != nil {
				logger.Warn("Engine stop failed", zap.Error(err))
			}
			if err := pushListener.Stop(ctx); err != nil {
				logger.Warn("Push listener stop failed", zap.Error(err))
			}
			if err := watcher.Stop(ctx); err != nil {
				logger.Warn("Catalog watcher stop failed", zap.Error(err))
			}
			active.Close()

			return nil
		},
	})
}
