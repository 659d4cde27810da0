package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"assassin/internal/app/api"
	"assassin/internal/pkg/logx"
)

// gameAction runs fn for the logged-in user against the game named by the first argument.
type gameAction func(ctx context.Context, cmd *cli.Command, u *api.User, gameID string) (api.Document, error)

func (a *app) gameSubcommand(name, usage, argsUsage string, flags []cli.Flag, fn gameAction) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<game-id>" + argsUsage,
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gameID, err := requireArg(cmd, 0, "game id")
			if err != nil {
				return err
			}

			u, err := a.currentUser(ctx)
			if err != nil {
				return err
			}

			doc, err := fn(ctx, cmd, u, gameID)
			if err != nil {
				return err
			}
			return printDocument(writer(cmd), doc)
		},
	}
}

func gameSettingsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name"},
		&cli.StringFlag{Name: "description"},
		&cli.StringFlag{Name: "password", Usage: "password players need to join"},
	}
}

func gameSettingsFrom(cmd *cli.Command) api.GameSettings {
	return api.GameSettings{
		Name:        cmd.String("name"),
		Description: cmd.String("description"),
		Password:    cmd.String("password"),
	}
}

func (a *app) gameCommand() *cli.Command {
	return &cli.Command{
		Name:  "game",
		Usage: "create, join and play games",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a game and print its id",
				Flags: gameSettingsFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					u, err := a.currentUser(ctx)
					if err != nil {
						return err
					}

					gameID, err := u.CreateGame(ctx, gameSettingsFrom(cmd))
					if err != nil {
						return err
					}

					logx.Info("Game created", "game_id", gameID)
					return printJSON(writer(cmd), map[string]string{"game": gameID})
				},
			},
			a.gameSubcommand("settings", "print a game's settings", "", nil,
				func(ctx context.Context, _ *cli.Command, u *api.User, gameID string) (api.Document, error) {
					return u.GetGameSettings(ctx, gameID)
				}),
			a.gameSubcommand("configure", "change a game's settings; omitted flags stay unchanged", "", gameSettingsFlags(),
				func(ctx context.Context, cmd *cli.Command, u *api.User, gameID string) (api.Document, error) {
					return u.SetGameSettings(ctx, gameID, gameSettingsFrom(cmd))
				}),
			a.gameSubcommand("join", "join a game", "", []cli.Flag{&cli.StringFlag{Name: "password"}},
				func(ctx context.Context, cmd *cli.Command, u *api.User, gameID string) (api.Document, error) {
					return u.Join(ctx, gameID, cmd.String("password"))
				}),
			a.gameSubcommand("leave", "leave a game", "", nil,
				func(ctx context.Context, _ *cli.Command, u *api.User, gameID string) (api.Document, error) {
					return u.Leave(ctx, gameID)
				}),
			a.gameSubcommand("kick", "remove a player from a game", " <username>", nil,
				func(ctx context.Context, cmd *cli.Command, u *api.User, gameID string) (api.Document, error) {
					target, err := requireArg(cmd, 1, "username")
					if err != nil {
						return nil, err
					}
					return u.Kick(ctx, gameID, target)
				}),
			a.gameSubcommand("start", "start a game", "", nil,
				func(ctx context.Context, _ *cli.Command, u *api.User, gameID string) (api.Document, error) {
					return u.Start(ctx, gameID)
				}),
			a.gameSubcommand("shuffle", "reassign targets", "", nil,
				func(ctx context.Context, _ *cli.Command, u *api.User, gameID string) (api.Document, error) {
					return u.Shuffle(ctx, gameID)
				}),
			a.gameSubcommand("status", "print your status in a game", "", nil,
				func(ctx context.Context, _ *cli.Command, u *api.User, gameID string) (api.Document, error) {
					return u.Status(ctx, gameID)
				}),
			a.gameSubcommand("kill", "report a kill with the target's code", " <code>", nil,
				func(ctx context.Context, cmd *cli.Command, u *api.User, gameID string) (api.Document, error) {
					code, err := requireArg(cmd, 1, "kill code")
					if err != nil {
						return nil, err
					}
					return u.Kill(ctx, gameID, code)
				}),
			{
				Name:      "show",
				Usage:     "show a game's public information",
				ArgsUsage: "<game-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					gameID, err := requireArg(cmd, 0, "game id")
					if err != nil {
						return err
					}

					doc, err := a.client.GetGame(ctx, gameID)
					if err != nil {
						return err
					}
					return printDocument(writer(cmd), doc)
				},
			},
		},
	}
}
