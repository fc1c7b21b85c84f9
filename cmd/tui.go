package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/shared"
	"github.com/javed0211/AzureDevopsMigratorNew-sub000/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for artifact extraction.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	engine, err := r.resolveEngine(ctx)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/adomig-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.projects, engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
