// Package app wires the gateway together: client, caches, stores, services,
// tool catalog and the selected MCP transport.
package app

import (
	"context"
	"fmt"
	"os"

	"sejmlex/internal/breaker"
	"sejmlex/internal/cache"
	"sejmlex/internal/config"
	"sejmlex/internal/logging"
	"sejmlex/internal/mcp"
	"sejmlex/internal/sejm"
	"sejmlex/internal/service"
	"sejmlex/internal/store"
	"sejmlex/internal/tools"
)

// App is the assembled gateway.
type App struct {
	cfg      *config.Config
	logger   logging.Logger
	registry *tools.Registry
	handler  *mcp.Handler

	httpServer *mcp.HTTPServer
}

// New builds the full dependency graph from configuration.
func New(cfg *config.Config) (*App, error) {
	logging.Setup(logging.ParseLevel(cfg.Log.Level), logging.ParseFormat(cfg.Log.Format))
	logger := logging.NewComponentLogger("App")

	cb := breaker.New(breaker.Config{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		RecoveryTimeout:  config.Seconds(cfg.Breaker.RecoveryTimeoutSec),
		HalfOpenMaxCalls: cfg.Breaker.HalfOpenMaxCalls,
	}, logging.NewComponentLogger("Breaker"))

	responseCache := cache.New(cfg.Cache.MaxEntries, logging.NewComponentLogger("Cache"))

	client := sejm.NewClient(sejm.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       config.Seconds(cfg.API.TimeoutSec),
		MaxConcurrent: cfg.API.MaxConcurrent,
		MaxRetries:    cfg.API.MaxRetries,
		UserAgent:     cfg.API.UserAgent,
	}, cb, responseCache, logging.NewComponentLogger("SejmClient"))

	docs := store.NewDocumentStore(store.DocumentStoreConfig{
		MaxDocuments: cfg.Documents.MaxDocuments,
		MaxSizeBytes: cfg.Documents.MaxBytes,
		TTL:          config.Seconds(cfg.Documents.TTLSec),
	}, logging.NewComponentLogger("DocumentStore"))

	results := store.NewResultSetStore(store.ResultSetStoreConfig{
		MaxSets: cfg.Results.MaxSets,
		TTL:     config.Seconds(cfg.Results.TTLSec),
	}, logging.NewComponentLogger("ResultSetStore"))

	serviceLogger := logging.NewComponentLogger("Service")
	registry := tools.NewCatalog(tools.Deps{
		Metadata: service.NewMetadataService(client, config.Seconds(cfg.Cache.MetadataTTL), serviceLogger),
		Search:   service.NewSearchService(client, config.Seconds(cfg.Cache.SearchTTL), config.Seconds(cfg.Cache.BrowseTTL), serviceLogger),
		Changes:  service.NewChangesService(client, config.Seconds(cfg.Cache.ChangesTTL), serviceLogger),
		Acts:     service.NewActService(client, docs, config.Seconds(cfg.Cache.DetailsTTL), serviceLogger),
		Docs:     docs,
		Results:  results,
		Logger:   logging.NewComponentLogger("Tools"),
	})

	handler := mcp.NewHandler(registry, mcp.ServerInfo{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, logging.NewComponentLogger("MCP"))

	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		handler:  handler,
	}, nil
}

// Registry exposes the tool catalog, mainly for tests.
func (a *App) Registry() *tools.Registry {
	return a.registry
}

// Run serves the configured transport until the context is cancelled or the
// stdio stream ends.
func (a *App) Run(ctx context.Context) error {
	switch a.cfg.Server.Transport {
	case "stdio":
		a.logger.Info("serving MCP over stdio (%s %s)", a.cfg.Server.Name, a.cfg.Server.Version)
		server := mcp.NewStdioServer(a.handler, os.Stdin, os.Stdout, logging.NewComponentLogger("Stdio"))
		return server.Run(ctx)

	case "http":
		a.httpServer = mcp.NewHTTPServer(a.handler, a.cfg.Server.Addr(), logging.NewComponentLogger("HTTP"))
		errCh := make(chan error, 1)
		go func() { errCh <- a.httpServer.ListenAndServe() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return a.Shutdown()
		}

	default:
		return fmt.Errorf("unknown transport: %s", a.cfg.Server.Transport)
	}
}

// Shutdown drains the HTTP transport if it is running.
func (a *App) Shutdown() error {
	if a.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.Seconds(10))
	defer cancel()
	return a.httpServer.Shutdown(ctx)
}
