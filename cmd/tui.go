package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mspforge/contactsync/internal/shared"
	"github.com/mspforge/contactsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// SyncUI launches the interactive terminal UI for the sync pipeline.
func (r *Runner) SyncUI(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)
	if err := r.ensureEngine(); err != nil {
		return err
	}

	opts, err := r.planOpts(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/contactsync-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, opts)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
