package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/codeshield/codeshield/internal/types"
)

// Run opens the viewer full screen and blocks until the user quits.
func Run(findings []types.Finding, opts Options) error {
	if _, err := tea.NewProgram(NewModel(findings, opts), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
