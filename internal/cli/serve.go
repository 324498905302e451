package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/flowbench"
	httpAdapter "github.com/aretw0/flowbench/pkg/adapters/http"
	"github.com/aretw0/flowbench/pkg/domain"
)

// ShutdownTimeout is how long outstanding requests get to finish on shutdown.
const ShutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Options
	Addr    string
	Metrics bool
}

// runner records metrics for every run made through the server.
type runner struct {
	*flowbench.Engine
	session *Session
}

func (r runner) RunFlow(ctx context.Context, name string, vars map[string]string) (*domain.RunResult, error) {
	res, err := r.Engine.RunFlow(ctx, name, vars)
	r.session.Metrics.ObserveRun(name, res, err)
	return res, err
}

// Serve exposes the flow directory over HTTP until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	// Display output has no terminal to go to.
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}

	server := httpAdapter.NewServer(nil,
		httpAdapter.WithVersion(strings.TrimSpace(flowbench.Version)),
		httpAdapter.WithLogger(createLogger(opts.Options)),
	)

	s, err := newSession(ctx, opts.Options, server.Hooks())
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.Metrics {
		httpAdapter.WithMetrics(s.Metrics.Handler())(server)
	}
	server.Engine = runner{Engine: s.Engine, session: s}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.Logger.Info("Starting server", "addr", srv.Addr, "dir", s.Engine.Dir().Root)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.Logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		s.Logger.Info("Server stopped gracefully")
		return nil
	}
}
