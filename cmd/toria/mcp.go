package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/toria/internal/cli"
	"github.com/aretw0/toria/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the chat modes as MCP tools so agents can talk to the assistant.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

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

		srv := mcp.NewServer(app.Assistant, logger)
		switch transport {
		case "stdio":
			logger.Info("Starting MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
