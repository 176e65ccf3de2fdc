package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tap-socrata/internal/cli"
	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the datasets discovered for the configured domains",
	Long: `Runs discovery (or reads an existing catalog file) and prints a summary of
every stream: name, domain, replication method and last data update.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		catalogPath, _ := cmd.Flags().GetString("catalog")
		debug, _ := cmd.Flags().GetBool("debug")

		err := cli.Datasets(cli.DatasetsOptions{
			ConfigPath:  configPath,
			CatalogPath: catalogPath,
			Debug:       debug,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)

	datasetsCmd.Flags().String("catalog", "", "Path to a catalog file (skips discovery)")
}
