package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringmap/internal/api"
	"github.com/matzehuels/ringmap/pkg/cache"
	"github.com/matzehuels/ringmap/pkg/pipeline"
	"github.com/matzehuels/ringmap/pkg/store"
)

// serveCommand creates the serve command running the layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		mongoURI string
		mongoDB  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

The service exposes the layout pipeline over JSON:

  POST   /v1/layouts      compute a layout for a posted scene
  GET    /v1/layouts      list stored layout IDs
  GET    /v1/layouts/{id} fetch a stored layout
  DELETE /v1/layouts/{id} delete a stored layout
  GET    /healthz         liveness probe

With --redis computed layouts are cached in Redis instead of on disk. With
--mongo layouts can be persisted and fetched by ID; without it the service
runs with an in-memory store that forgets on restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, mongoURI, mongoDB)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for layout caching (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for layout persistence")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "ringmap", "MongoDB database name")

	return cmd
}

// runServe wires up cache, store, and router, then serves until interrupted.
func (c *CLI) runServe(ctx context.Context, addr, redisURL, mongoURI, mongoDB string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	layoutCache, err := c.serveCache(ctx, redisURL)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(layoutCache, nil, c.Logger)
	defer runner.Close()

	layoutStore, err := c.serveStore(ctx, mongoURI, mongoDB)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer layoutStore.Close(context.Background())

	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(runner, layoutStore, c.Logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("layout service listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (c *CLI) serveCache(ctx context.Context, redisURL string) (cache.Cache, error) {
	if redisURL != "" {
		return cache.NewRedisCache(ctx, redisURL)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) serveStore(ctx context.Context, mongoURI, mongoDB string) (store.Store, error) {
	if mongoURI != "" {
		return store.NewMongoStore(ctx, mongoURI, mongoDB)
	}
	return store.NewMemoryStore(), nil
}
