package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardvault/cmd/app/commands"
	"github.com/allisson/cardvault/internal/app"
	"github.com/allisson/cardvault/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-key",
			Usage: "Generate a new encryption key for MASTER_KEY or ENCRYPTION_KEYS",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Key ID (generated when empty)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI used to encrypt the key (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("kms-key-uri"),
					cmd.String("format"),
				)
			},
		},
	}
}
