package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"assassin/internal/app/reload"
	"assassin/internal/configs"
	"assassin/internal/handler"
	"assassin/internal/pkg/limiter"
	"assassin/internal/pkg/logx"
)

// shutdownTimeout bounds the graceful shutdown of the dev server.
const shutdownTimeout = 5 * time.Second

func (a *app) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the web bundle with live reload",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "listen port (overrides PORT)"},
			&cli.StringFlag{Name: "dir", Usage: "bundle directory (overrides BUNDLE_DIR)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.IsSet("port") {
				a.cfg.Port = int(cmd.Int("port"))
			}
			if cmd.IsSet("dir") {
				a.cfg.BundleDir = cmd.String("dir")
			}
			return serve(ctx, a.cfg)
		},
	}
}

// newDevServer assembles the router and its live reload plumbing. The hub, limiter
// sweep and watcher all stop when ctx ends.
func newDevServer(ctx context.Context, cfg *configs.AppConfig) *http.Server {
	hub := reload.NewHub()
	go hub.Run(ctx)

	watcher := reload.NewWatcher(cfg.BundleDir, cfg.WatchInterval, func(changed []string) {
		logx.Info("Bundle changed, reloading browsers", "files", len(changed))
		hub.Broadcast(changed)
	})
	go watcher.Run(ctx)

	router := handler.Router(&handler.AppDeps{
		Config:  cfg,
		Hub:     hub,
		Limiter: limiter.NewIPRateLimiter(ctx, rate.Limit(handler.LiveReloadRate), handler.LiveReloadBurst),
	})

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func serve(ctx context.Context, cfg *configs.AppConfig) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := newDevServer(ctx, cfg)

	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Str("bundle_dir", cfg.BundleDir).
		Str("base_url", cfg.BaseURL).
		Msg(fmt.Sprintf("Dev server starting on http://localhost%s", server.Addr))

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dev server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dev server forced to shutdown: %w", err)
	}

	logx.Info("Dev server gracefully stopped.")
	return nil
}
