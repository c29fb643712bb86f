// Package tui is the bubbletea front end of a groupspin session: group
// panels with a travelling highlight, the waiting roster, and key bindings
// that drive a session.Controller.
package tui

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/groupspin/internal/session"
)

// App wraps the Bubbletea program.
type App struct {
	program *tea.Program
	model   Model
}

// New creates a TUI application for ctrl. sched must be the Scheduler the
// controller was built with.
func New(ctrl *session.Controller, sched *Scheduler, opts Options) *App {
	return &App{model: NewModel(ctrl, sched, opts)}
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.model.Close()

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-ctx.Done():
		}
	}()

	_, err := a.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
