package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/deckcal"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of deckcal",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "deckcal version %s\n", strings.TrimSpace(deckcal.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
