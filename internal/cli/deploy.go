package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"assassin/internal/app/bundle"
	"assassin/internal/app/storage"
	"assassin/internal/pkg/logx"
)

func (a *app) deployCommand() *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "upload the web bundle to S3-compatible storage",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "bundle directory (overrides BUNDLE_DIR)"},
			&cli.StringFlag{Name: "prefix", Usage: "key prefix (overrides DEPLOY_PREFIX)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := a.cfg.BundleDir
			if cmd.IsSet("dir") {
				dir = cmd.String("dir")
			}
			prefix := a.cfg.Storage.Prefix
			if cmd.IsSet("prefix") {
				prefix = cmd.String("prefix")
			}

			if _, err := bundle.Files(dir); err != nil {
				return err
			}

			sc := a.cfg.Storage
			if customErr := sc.Validate(); customErr != nil {
				return customErr
			}

			svc, err := storage.NewStorageService(ctx, storage.ServiceConfig{
				S3BucketName:      sc.S3BucketName,
				S3Endpoint:        sc.S3Endpoint,
				S3Region:          sc.S3Region,
				S3AccessKeyID:     sc.S3AccessKeyID,
				S3SecretAccessKey: sc.S3SecretAccessKey,
			})
			if err != nil {
				return err
			}

			report, err := bundle.NewPublisher(svc, dir, prefix).Publish(ctx)
			if err != nil {
				return err
			}

			logx.Info("Bundle deployed", "files", len(report.Files), "bytes", report.Bytes)
			return printJSON(writer(cmd), report)
		},
	}
}
