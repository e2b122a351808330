package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/toria"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of toria",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "toria version %s\n", strings.TrimSpace(toria.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
