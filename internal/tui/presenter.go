package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/legendastv/ltv/internal/selector"
)

// Presenter collects selection commands through a full-screen bubbletea
// view. Each prompt runs its own short-lived program so the surrounding
// batch loop keeps ownership of the terminal between files.
type Presenter struct {
	opts []tea.ProgramOption
}

// NewPresenter returns a Presenter rendering to the default terminal.
func NewPresenter(opts ...tea.ProgramOption) *Presenter {
	return &Presenter{opts: opts}
}

// Next displays the payload and blocks until the user issues a command.
func (p *Presenter) Next(ctx context.Context, payload selector.Payload) (selector.Command, error) {
	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	}, p.opts...)

	program := tea.NewProgram(newModel(payload), opts...)
	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return selector.Command{}, ctx.Err()
		}
		return selector.Command{}, fmt.Errorf("selection view failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return selector.Command{}, fmt.Errorf("selection view returned unexpected model %T", final)
	}
	if m.quit {
		return selector.Command{}, context.Canceled
	}
	if !m.resolved {
		return selector.Skip(), nil
	}
	return m.command, nil
}
