package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sadopc/focusflow/internal/config"
	"github.com/sadopc/focusflow/internal/logx"
	"github.com/sadopc/focusflow/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive planner",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	app := tui.NewApp(sess.store, tui.Options{
		Days:      sess.cfg.Plan.Days,
		Log:       sess.log,
		Fs:        afero.NewOsFs(),
		ExportDir: home,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Replan when the config file changes underneath us.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go func() {
		err := config.Watch(ctx, sess.cfgPath, sess.log, func(c *config.Config) {
			p.Send(tui.ConfigChangedMsg{Days: c.Plan.Days})
		})
		if err != nil {
			sess.log.Warn("config watch stopped", logx.Err(err))
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
