package cli

import (
	"github.com/spf13/cobra"

	"github.com/vigilab/vigirag/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves the JSON API over HTTP:

  GET  /search?q=...   similarity search over the indexed corpus
  POST /chat           grounded question answering
  POST /test-prompt    direct generation, bypassing retrieval
  GET  /healthz        liveness check`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.pingBackends(cmd.Context())

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Addr
	}

	server := httpapi.NewServer(a.retriever, a.answerer, a.llm)
	cmd.Printf("Listening on %s\n", addr)
	return server.ListenAndServe(cmd.Context(), addr)
}
