package main

import (
	"context"
	"fmt"

	"github.com/aretw0/toria/internal/cli"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Run one trip notification pass and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := context.Background()
		app, err := cli.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close(ctx)

		sent, err := app.Notifier.ScheduleTripNotifications(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d notification(s) sent\n", sent)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}
