package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tap-socrata/internal/cli"
	"github.com/spf13/cobra"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show tap metadata and the settings schema",
	Run: func(cmd *cobra.Command, args []string) {
		jsonMode, _ := cmd.Flags().GetBool("json")
		if err := cli.About(jsonMode); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(aboutCmd)

	aboutCmd.Flags().Bool("json", false, "Force JSON output even on a terminal")
}
