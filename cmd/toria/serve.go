package main

import (
	"context"
	"time"

	"github.com/aretw0/toria/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the notification scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		noScheduler, _ := cmd.Flags().GetBool("no-scheduler")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		app, err := cli.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = app.Close(closeCtx)
		}()

		err = cli.Serve(ctx, app, cli.ServeOptions{
			Port:           cfg.Port,
			NotifySchedule: cfg.NotifySchedule,
			NoScheduler:    noScheduler,
		})
		if sig := ctx.Signal(); sig != nil {
			logger.Info("Server stopped", "signal", sig.String())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8001, "Port to listen on")
	serveCmd.Flags().Bool("no-scheduler", false, "Do not run the trip notification scheduler")
}
