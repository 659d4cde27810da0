package cli

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"assassin/internal/app/api"
	"assassin/internal/app/session"
	"assassin/internal/pkg/errs"
	"assassin/internal/pkg/logx"
)

// accountView is what signup, login and whoami print. The session token is never shown.
type accountView struct {
	Username string `json:"username"`
	Profile  string `json:"profile"`
	Server   string `json:"server"`
	LoggedIn bool   `json:"logged_in"`
}

func (a *app) view(u *api.User) accountView {
	return accountView{
		Username: u.Username(),
		Profile:  a.cfg.Session.Profile,
		Server:   a.client.BaseURL(),
		LoggedIn: u.LoggedIn(),
	}
}

func passwordFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "password",
		Usage:    "account password",
		Sources:  cli.EnvVars("ASSASSIN_PASSWORD"),
		Required: required,
	}
}

func (a *app) signupCommand() *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "create an account and remember its session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			passwordFlag(true),
			&cli.StringFlag{Name: "name", Usage: "display name"},
			&cli.StringFlag{Name: "bio"},
			&cli.StringFlag{Name: "email"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			u, err := a.client.CreateUser(ctx, api.NewAccount{
				Username: cmd.String("username"),
				Name:     cmd.String("name"),
				Bio:      cmd.String("bio"),
				Password: cmd.String("password"),
				Email:    cmd.String("email"),
			})
			if err != nil {
				return err
			}
			if err := a.remember(ctx, u); err != nil {
				return err
			}

			logx.Info("Account created", "username", u.Username())
			return printJSON(writer(cmd), a.view(u))
		},
	}
}

func (a *app) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in and remember the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			passwordFlag(true),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			u, err := a.client.Login(ctx, api.Credentials{
				Username: cmd.String("username"),
				Password: cmd.String("password"),
			})
			if err != nil {
				return err
			}
			if err := a.remember(ctx, u); err != nil {
				return err
			}

			logx.Info("Logged in", "username", u.Username())
			return printJSON(writer(cmd), a.view(u))
		},
	}
}

func (a *app) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "end the saved session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			u, err := a.currentUser(ctx)
			if err != nil {
				return err
			}

			if err := u.Logout(ctx); err != nil {
				return err
			}

			if err := a.store.Clear(ctx); err != nil && !errors.Is(err, session.ErrNotFound) {
				return errs.NewError(errs.ErrSessionStoreFailed, err)
			}

			logx.Info("Logged out", "username", u.Username())
			return printJSON(writer(cmd), a.view(u))
		},
	}
}

func (a *app) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the saved account",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			u, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			return printJSON(writer(cmd), a.view(u))
		},
	}
}

func (a *app) settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "read or change the logged-in account's settings",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "print the account settings",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					u, err := a.currentUser(ctx)
					if err != nil {
						return err
					}

					doc, err := u.GetSettings(ctx)
					if err != nil {
						return err
					}
					return printDocument(writer(cmd), doc)
				},
			},
			{
				Name:  "set",
				Usage: "change the account settings; omitted flags stay unchanged",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "bio"},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "password", Usage: "new password"},
					&cli.StringFlag{Name: "old-password", Usage: "current password, required by the server to change it"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					u, err := a.currentUser(ctx)
					if err != nil {
						return err
					}

					doc, err := u.SetSettings(ctx, api.UserSettings{
						Name:        cmd.String("name"),
						Bio:         cmd.String("bio"),
						Password:    cmd.String("password"),
						OldPassword: cmd.String("old-password"),
						Email:       cmd.String("email"),
					})
					if err != nil {
						return err
					}
					return printDocument(writer(cmd), doc)
				},
			},
		},
	}
}

func (a *app) userCommand() *cli.Command {
	return &cli.Command{
		Name:      "user",
		Usage:     "show a user's public profile",
		ArgsUsage: "<username>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name, err := requireArg(cmd, 0, "username")
			if err != nil {
				return err
			}

			doc, err := a.client.GetUser(ctx, name)
			if err != nil {
				return err
			}
			return printDocument(writer(cmd), doc)
		},
	}
}

// requireArg returns positional argument i or an ErrInvalidParams naming it.
func requireArg(cmd *cli.Command, i int, name string) (string, error) {
	v := cmd.Args().Get(i)
	if v == "" {
		return "", errs.NewError(errs.ErrInvalidParams, "missing "+name)
	}
	return v, nil
}
