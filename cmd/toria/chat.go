package main

import (
	"context"
	"os"
	"time"

	"github.com/aretw0/toria"
	"github.com/aretw0/toria/internal/cli"
	"github.com/aretw0/toria/internal/presentation/tui"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long: `Starts an interactive session. Each line is one message; lines starting
with "/" are commands (/mode, /itinerary, /history, /exit).

With --json or --headless, messages are read from stdin without prompts,
which makes the command usable in pipes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		userID, _ := cmd.Flags().GetString("user")
		mode, _ := cmd.Flags().GetString("mode")
		itinerary, _ := cmd.Flags().GetString("itinerary")
		jsonOut, _ := cmd.Flags().GetBool("json")
		headless, _ := cmd.Flags().GetBool("headless")

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

		opts := cli.ChatOptions{
			UserID:      userID,
			Mode:        domain.ParseMode(mode),
			ItineraryID: itinerary,
			JSON:        jsonOut,
			Headless:    headless || !term.IsTerminal(int(os.Stdin.Fd())),
		}
		if !opts.JSON && !opts.Headless {
			tui.PrintBanner(os.Stdout, toria.Version)
			opts.Renderer = tui.NewRenderer()
		}

		err = cli.RunChat(ctx, app.Assistant, os.Stdin, os.Stdout, opts)
		if ctx.Signal() != nil {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("user", "u", "cli-user", "User ID that owns the conversation")
	chatCmd.Flags().StringP("mode", "m", string(domain.ModeGeneral), "Chat mode: profile_dayplans, start_my_day or general")
	chatCmd.Flags().StringP("itinerary", "i", "", "Day plan ID (required for start_my_day)")
	chatCmd.Flags().Bool("json", false, "Print one JSON response per line")
	chatCmd.Flags().Bool("headless", false, "Disable prompts and markdown rendering")
}
