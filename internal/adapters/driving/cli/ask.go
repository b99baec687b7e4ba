package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vigilab/vigirag/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question grounded in the indexed corpus",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	answer, err := a.answerer.Ask(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNoContext) {
			cmd.Println("No relevant documents were found for this question.")
			return nil
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer)
	return nil
}
