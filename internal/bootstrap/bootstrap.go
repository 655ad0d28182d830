// Package bootstrap runs long-lived workers and stops them on a signal.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds the time given to shutdown hooks.
const DefaultShutdownTimeout = 10 * time.Second

// App owns a set of workers and the hooks that stop them.
type App struct {
	mu              sync.Mutex
	hooks           []func(ctx context.Context) error
	shutdownTimeout time.Duration
	signals         []os.Signal
}

// New creates an App that stops on SIGINT or SIGTERM.
func New() *App {
	return &App{
		shutdownTimeout: DefaultShutdownTimeout,
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
}

// WithShutdownTimeout overrides DefaultShutdownTimeout.
func (a *App) WithShutdownTimeout(d time.Duration) *App {
	a.shutdownTimeout = d
	return a
}

// AddShutdownHook registers fn to run on shutdown. Hooks run last in, first out.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Run starts every worker and blocks until they all return. A signal, a
// cancelled ctx or the first worker error runs the shutdown hooks, which are
// expected to make the remaining workers return.
func (a *App) Run(ctx context.Context, workers ...func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, a.signals...)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, worker := range workers {
		g.Go(func() error {
			return worker(gctx)
		})
	}

	var shutdownErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-gctx.Done()
		slog.Default().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.shutdownTimeout)
		defer cancel()
		shutdownErr = a.shutdown(shutdownCtx)
	}()

	err := g.Wait()
	// Wait closes gctx even when every worker returned nil.
	<-done
	return errors.Join(err, shutdownErr)
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		if err := a.hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.hooks = nil
	return errors.Join(errs...)
}
