package main

import (
	"fmt"

	"github.com/aretw0/toria/internal/presentation/graph"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/spf13/cobra"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Print the chat pipeline as a Mermaid diagram",
	Run: func(cmd *cobra.Command, args []string) {
		var overlay *graph.Overlay
		if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
			overlay = &graph.Overlay{Mode: domain.ParseMode(mode)}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(overlay))
	},
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
	pipelineCmd.Flags().String("mode", "", "Highlight the stage used by this mode")
}
