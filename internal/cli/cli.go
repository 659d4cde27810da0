/*
Package cli wires the command line interface of the assassin tool.

Every command shares one app value: the loaded configuration, an API client pointed at
the configured server, and the session store holding the logged-in account. Results are
printed as indented JSON on the command's writer; logs go to the error writer.
*/
package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"assassin/internal/app/api"
	"assassin/internal/app/session"
	"assassin/internal/configs"
	"assassin/internal/pkg/errs"
	"assassin/internal/pkg/logx"
)

// requestTimeout bounds every call to the game server.
const requestTimeout = 30 * time.Second

type app struct {
	// env replaces the process environment when non-nil.
	env        map[string]string
	httpClient *http.Client

	cfg    *configs.AppConfig
	client *api.Client
	store  session.Store
}

// Option customizes the command tree, mostly for tests.
type Option func(*app)

// WithEnv reads configuration from vars instead of the process environment.
func WithEnv(vars map[string]string) Option {
	return func(a *app) {
		a.env = vars
	}
}

// WithHTTPClient sets the client used to reach the game server.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *app) {
		a.httpClient = hc
	}
}

// New builds the root command.
func New(opts ...Option) *cli.Command {
	a := &app{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(a)
	}

	return &cli.Command{
		Name:  "assassin",
		Usage: "play Assassin from the terminal and serve the web bundle",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "game server address (overrides ASSASSIN_BASE_URL)",
			},
			&cli.StringFlag{
				Name:  "profile",
				Usage: "saved session profile (overrides SESSION_PROFILE)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "human readable debug logs",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			a.signupCommand(),
			a.loginCommand(),
			a.logoutCommand(),
			a.whoamiCommand(),
			a.settingsCommand(),
			a.userCommand(),
			a.gameCommand(),
			a.serveCommand(),
			a.deployCommand(),
		},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logx.InitGlobalLoggerTo(errWriter(cmd), cmd.Bool("debug"))

	var (
		cfg *configs.AppConfig
		err error
	)
	if a.env != nil {
		cfg, err = configs.LoadConfigFrom(a.env)
	} else {
		cfg, err = configs.LoadConfig()
	}
	if err != nil {
		return ctx, err
	}

	if cmd.IsSet("base-url") {
		cfg.BaseURL = cmd.String("base-url")
	}
	if cmd.IsSet("profile") {
		cfg.Session.Profile = cmd.String("profile")
	}
	if err := cfg.Validate(); err != nil {
		return ctx, err
	}

	a.cfg = cfg
	a.client = api.NewClient(cfg.BaseURL, api.WithHTTPClient(a.httpClient))

	logx.Debug("Configuration loaded", "environment", cfg.Environment, "base_url", cfg.BaseURL, "profile", cfg.Session.Profile)

	return ctx, nil
}

func (a *app) after(_ context.Context, _ *cli.Command) error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// sessions opens the session store on first use.
func (a *app) sessions(ctx context.Context) (session.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	store, err := session.Open(ctx, a.cfg.Session)
	if err != nil {
		return nil, errs.NewError(errs.ErrSessionStoreFailed, err)
	}
	a.store = store
	return store, nil
}

// currentUser restores the saved account or fails with ErrNotLoggedIn.
func (a *app) currentUser(ctx context.Context) (*api.User, error) {
	store, err := a.sessions(ctx)
	if err != nil {
		return nil, err
	}

	u, err := session.Restore(ctx, store, a.client)
	if errors.Is(err, session.ErrNotFound) {
		return nil, errs.NewError(errs.ErrNotLoggedIn)
	}
	if err != nil {
		return nil, errs.NewError(errs.ErrSessionStoreFailed, err)
	}
	return u, nil
}

// remember saves u as the profile's account.
func (a *app) remember(ctx context.Context, u *api.User) error {
	store, err := a.sessions(ctx)
	if err != nil {
		return err
	}
	if err := session.Remember(ctx, store, u); err != nil {
		return errs.NewError(errs.ErrSessionStoreFailed, err)
	}
	return nil
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
