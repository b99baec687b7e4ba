package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vigilab/vigirag/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat TUI",
	Long: `Launch an interactive terminal chat over the indexed corpus.

Controls:
  Enter    - Ask the typed question
  ↑/↓      - Scroll the transcript
  Esc      - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	a.pingBackends(cmd.Context())

	m := tui.New(a.answerer)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("chat TUI error: %w", err)
	}
	return nil
}
