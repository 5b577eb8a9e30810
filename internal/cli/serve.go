package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/autocrate/autocrate/internal/server"
	"github.com/autocrate/autocrate/pkg/cache"
	"github.com/autocrate/autocrate/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string // listen address
	redisAddr     string // optional shared Redis cache
	redisPassword string
	redisDB       int
	noCache       bool
}

// serveCommand creates the serve command for running the design API.
// With --redis, the design cache is shared across replicas; otherwise each
// process uses its own file cache.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the crate design HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for a shared cache (host:port)")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching entirely")

	return cmd
}

// runServe starts the HTTP server and blocks until the context is cancelled
// or the listener fails.
func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	store, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if opts.redisAddr != "" {
		// Redis may be shared with other services; prefix our keys.
		keyer = cache.NewScopedKeyer(nil, "autocrate:")
	}
	runner := pipeline.NewRunner(store, keyer, logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.New(runner, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving design API", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// serveCache picks the cache backend for the server: Redis when configured,
// otherwise the local file cache.
func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		store, err := cache.NewRedisCache(ctx, opts.redisAddr, opts.redisPassword, opts.redisDB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Info("using redis cache", "addr", opts.redisAddr)
		return store, nil
	}
	return newCache(false)
}
