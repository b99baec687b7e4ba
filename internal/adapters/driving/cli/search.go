package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vigilab/vigirag/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed corpus by similarity",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.retriever.Retrieve(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	return outputSearchTable(cmd, res)
}

func outputSearchTable(cmd *cobra.Command, res *domain.QueryResult) error {
	if res.Empty() {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := 0; i < res.Len(); i++ {
		title := res.IDs[i]
		if i < len(res.Metadatas) && res.Metadatas[i].Title != "" {
			title = res.Metadatas[i].Title
		}
		distance := 0.0
		if i < len(res.Distances) {
			distance = res.Distances[i]
		}
		cmd.Printf("  [%d] %s (distance %.3f)\n", i+1, title, distance)
		if i < len(res.Metadatas) && res.Metadatas[i].Source != "" {
			cmd.Printf("      Source: %s\n", res.Metadatas[i].Source)
		}
		snippet := res.Documents[i]
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		cmd.Printf("      %s\n", snippet)
		cmd.Println()
	}
	return nil
}
