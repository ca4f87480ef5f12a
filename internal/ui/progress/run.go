package progress

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eksward/eksward/internal/assess"
)

// ErrInterrupted is returned when the display is quit before the run finishes.
var ErrInterrupted = errors.New("assessment interrupted")

// Run wraps an assessment run with the progress TUI.
// runFn performs the assessment, reporting lifecycle events through emit.
// Quitting the display cancels the context passed to runFn.
func Run(ctx context.Context, region, targetVersion string, runFn func(ctx context.Context, emit func(assess.Event)) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(region, targetVersion)
	p := tea.NewProgram(m)

	go func() {
		emit := func(ev assess.Event) { p.Send(EventMsg{Event: ev}) }
		if err := runFn(ctx, emit); err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("progress display error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	if !fm.Done {
		return ErrInterrupted
	}
	return nil
}
