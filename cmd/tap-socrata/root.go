package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tap-socrata/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tap-socrata",
	Short: "Singer tap for the Socrata open data API",
	Long: `tap-socrata extracts datasets from Socrata-hosted open data portals and
emits them as Singer messages on stdout, for any Singer target to consume.

Without --discover it syncs: streams SCHEMA, RECORD and STATE messages for
every selected stream in the catalog. With --discover it writes the catalog
JSON to stdout instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		catalogPath, _ := cmd.Flags().GetString("catalog")
		statePath, _ := cmd.Flags().GetString("state")
		discover, _ := cmd.Flags().GetBool("discover")
		debug, _ := cmd.Flags().GetBool("debug")
		runID, _ := cmd.Flags().GetString("run-id")

		err := cli.Execute(cli.RunOptions{
			ConfigPath:  configPath,
			CatalogPath: catalogPath,
			StatePath:   statePath,
			Discover:    discover,
			Debug:       debug,
			RunID:       runID,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the settings file (JSON or YAML)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")

	rootCmd.Flags().String("catalog", "", "Path to a catalog file (discovers all streams when omitted)")
	rootCmd.Flags().String("state", "", "Path to a state file with bookmarks from a previous run")
	rootCmd.Flags().BoolP("discover", "d", false, "Run discovery and write the catalog to stdout")
	rootCmd.Flags().String("run-id", "", "Identifier for the state backend entry (default \"default\")")
}
