package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardvault/cmd/app/commands"
	"github.com/allisson/cardvault/internal/app"
	"github.com/allisson/cardvault/internal/config"
)

func getPaymentCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "reencrypt-records",
			Usage: "Re-encrypt stored payment methods from one key to another",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "old-key-id",
					Required: true,
					Usage:    "Key ID the records are currently encrypted with",
				},
				&cli.StringFlag{
					Name:  "new-key-id",
					Value: "",
					Usage: "Target key ID (defaults to the current key)",
				},
				&cli.IntFlag{
					Name:    "batch-size",
					Aliases: []string{"b"},
					Value:   100,
					Usage:   "Number of records re-encrypted per transaction",
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

				encryptionUseCase, err := container.EncryptionUseCase()
				if err != nil {
					return err
				}

				paymentMethodUseCase, err := container.PaymentMethodUseCase()
				if err != nil {
					return err
				}

				newKeyID := cmd.String("new-key-id")
				if newKeyID == "" {
					newKeyID = encryptionUseCase.CurrentKeyID()
				}

				return commands.RunReEncryptRecords(
					ctx,
					paymentMethodUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("old-key-id"),
					newKeyID,
					int(cmd.Int("batch-size")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "verify-records",
			Usage: "Verify every stored payment method still decrypts",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "batch-size",
					Aliases: []string{"b"},
					Value:   100,
					Usage:   "Number of records read per page",
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

				paymentMethodUseCase, err := container.PaymentMethodUseCase()
				if err != nil {
					return err
				}

				return commands.RunVerifyRecords(
					ctx,
					paymentMethodUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("batch-size")),
					cmd.String("format"),
				)
			},
		},
	}
}
