package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultAddr is the listen address when neither the flag nor the
// configuration sets one.
const DefaultAddr = ":8787"

// ShutdownTimeout bounds the wait for in-flight requests on shutdown.
const ShutdownTimeout = 10 * time.Second

// Run executes the serve command. It blocks until the context is
// canceled, then drains in-flight requests.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" && deps.Config != nil {
		addr = deps.Config.Addr
	}
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           deps.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		deps.Logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
