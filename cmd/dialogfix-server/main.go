package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/dialogfix/internal/bootstrap"
	"github.com/at-ishikawa/dialogfix/internal/config"
	"github.com/at-ishikawa/dialogfix/internal/database"
	"github.com/at-ishikawa/dialogfix/internal/dialoglog"
	"github.com/at-ishikawa/dialogfix/internal/observe"
	"github.com/at-ishikawa/dialogfix/internal/presenter"
	"github.com/at-ishikawa/dialogfix/internal/relay"
	"github.com/at-ishikawa/dialogfix/internal/server"
	"github.com/at-ishikawa/dialogfix/schemas"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "dialogfix-server",
		Short:         "Dialogue correction HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	app := bootstrap.New()
	srv, runtime, err := newServer(ctx, cfg, app)
	if err != nil {
		return err
	}

	return app.Run(ctx,
		runtime.Run,
		func(ctx context.Context) error {
			slog.Default().Info("starting server", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("srv.ListenAndServe() > %w", err)
			}
			return nil
		},
	)
}

// newServer wires the runtime and the HTTP server and registers their
// shutdown hooks on app.
func newServer(ctx context.Context, cfg *config.Config, app *bootstrap.App) (*http.Server, *relay.Runtime, error) {
	presenters := presenter.Multi{presenter.NewTerminal(os.Stdout, false)}
	if cfg.Database.Enabled {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		app.AddShutdownHook(func(context.Context) error {
			return db.Close()
		})
		if err := database.Migrate(ctx, db, schemas.Migrations, "migrations"); err != nil {
			return nil, nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		presenters = append(presenters, dialoglog.NewPresenter(dialoglog.NewDBRepository(db)))
	}

	var metricsHandler http.Handler
	options := relay.RuntimeOptions{Presenter: presenters}
	if cfg.Server.Metrics {
		provider, err := observe.InitProvider()
		if err != nil {
			return nil, nil, fmt.Errorf("observe.InitProvider() > %w", err)
		}
		app.AddShutdownHook(provider.Shutdown)
		options.Metrics = provider.Metrics
		metricsHandler = provider.Handler
	}

	runtime, err := relay.NewRuntime(cfg, options)
	if err != nil {
		return nil, nil, fmt.Errorf("relay.NewRuntime() > %w", err)
	}
	app.AddShutdownHook(func(context.Context) error {
		return runtime.Close()
	})

	handler, err := server.NewHandler(runtime, relay.DefaultProfile(cfg.Translation))
	if err != nil {
		return nil, nil, fmt.Errorf("server.NewHandler() > %w", err)
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.WithCORS(h2c.NewHandler(handler.Routes(metricsHandler), &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	}
	app.AddShutdownHook(srv.Shutdown)
	return srv, runtime, nil
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
