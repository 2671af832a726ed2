package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dsx/internal/shared"
	"github.com/desertthunder/dsx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive upload & browse UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.portal == nil {
		return fmt.Errorf("%w: portal not initialized", shared.ErrServiceUnavailable)
	}
	if r.engine == nil {
		return fmt.Errorf("%w: upload engine not initialized", shared.ErrServiceUnavailable)
	}

	logPath := r.config.UI.LogPath
	if logPath == "" {
		logPath = "./tmp/dsx-tui.log"
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.ModelOpts{
		Portal:   r.portal,
		Engine:   r.engine,
		Config:   r.config,
		Logger:   fileLogger,
		StartDir: cmd.String("dir"),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
