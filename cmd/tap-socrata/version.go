package main

import (
	"fmt"
	"strings"

	tapsocrata "github.com/aretw0/tap-socrata"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tap-socrata",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tap-socrata version %s\n", strings.TrimSpace(tapsocrata.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
