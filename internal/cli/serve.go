package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/parkgen/internal/api"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		timeout  time.Duration
		noCache  bool
		redisURL string
		mongoURI string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve park generation over HTTP",
		Long: `Serve park generation over HTTP.

  POST   /v1/parks               generate (body: options JSON) and save
  GET    /v1/parks               list saved parks
  GET    /v1/parks/{id}          park description
  GET    /v1/parks/{id}/plan.svg site plan
  DELETE /v1/parks/{id}          delete a saved park

Saved parks go to the local history, or to MongoDB with --mongo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, timeout, noCache, redisURL, mongoURI)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "per-request timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisURL, "redis", os.Getenv(envRedisURL), "cache in Redis at this URL instead of on disk")
	cmd.Flags().StringVar(&mongoURI, "mongo", os.Getenv(envMongoURI), "save parks to MongoDB at this URI")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, timeout time.Duration, noCache bool, redisURL, mongoURI string) error {
	runner, err := c.newRunner(ctx, noCache, redisURL)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := openStore(ctx, mongoURI)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	s := api.New(runner, store, c.Logger)
	s.RequestTimeout = timeout
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
