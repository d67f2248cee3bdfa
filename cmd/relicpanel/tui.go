package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"relicpanel/internal/logging"
	"relicpanel/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the terminal UI (default)",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, logger, cleanup, err := setup(cmd.Context(), logging.DefaultFile())
	if err != nil {
		return err
	}
	defer cleanup()

	m := ui.New(a)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return err
	}
	logger.Info().Msg("tui exited")
	return nil
}
