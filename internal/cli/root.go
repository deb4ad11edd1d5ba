// Package cli wires the portfolio backend's commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DoyleJ11/portfolio-backend/internal/catalog"
)

var (
	configFlag   string
	envFileFlags []string
	catalogFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Portfolio site backend and animated section sequencer",
	Long: `Serves the portfolio API: animated section frames over HTTP and websockets,
resume content, the contact form and the chat proxy.

With no subcommand it serves.

Examples:
  portfolio serve
  portfolio render --catalog skills --index 2
  portfolio preview --catalog achievements`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringSliceVar(&envFileFlags, "env-file", []string{".env"}, ".env files to load")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog-file", "", "YAML file with catalogs merged over the built-ins")

	rootCmd.AddCommand(serveCmd, renderCmd, previewCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadCatalogs(path string) (*catalog.Set, error) {
	if path == "" {
		return catalog.DefaultSet(), nil
	}
	return catalog.Load(path)
}
