package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vigilab/vigirag/internal/watcher"
)

var indexWatch bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Ingest the NXML corpus into the vector store",
	Long: `Scans the data directory for *.nxml files, chunks each document
into overlapping word windows, embeds every chunk and upserts the
batch into the vector store. Chunk ids are deterministic, so
re-running index overwrites instead of duplicating.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "keep watching the data directory and re-ingest on changes")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.ingestor.Ingest(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Indexed %d chunks from %d files", report.Chunks, report.Files)
	if report.Skipped > 0 {
		cmd.Printf(" (%d skipped)", report.Skipped)
	}
	cmd.Println()
	cmd.Printf("Store now holds %d vectors\n", report.StoreCount)

	if !indexWatch {
		return nil
	}

	w := watcher.New(a.cfg.DataDir, a.ingestor, 0)
	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", a.cfg.DataDir)
	return w.Run(cmd.Context())
}
