// Package cli wires the vigirag commands: corpus ingestion, the HTTP
// API server, search and question answering, the chat TUI and the MCP
// server.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vigilab/vigirag/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "vigirag",
	Short: "Retrieval-augmented question answering over an NXML corpus",
	Long: `vigirag ingests NXML documents into a vector store and answers
natural-language questions grounded in the indexed corpus.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default ~/.vigirag/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
