package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/archivo/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive chat UI",
	Long: `Launch the terminal chat interface for the archive.

Type a question and press Enter. Results are listed under the conversation
and can be opened for their full metadata.

Controls:
  Enter      - Send / Open document
  Tab        - Switch between input and results
  ↑/k, ↓/j   - Navigate results
  PgUp/PgDn  - Scroll the conversation
  Ctrl+R     - New conversation
  Esc        - Back
  F1         - Help
  Ctrl+C     - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(chatService, searchService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	startTablesWatch(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
