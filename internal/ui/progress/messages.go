// Package progress provides a Bubble Tea-based terminal UI for assessment runs.
package progress

import "github.com/eksward/eksward/internal/assess"

// EventMsg carries an assessment lifecycle event into the display.
type EventMsg struct {
	Event assess.Event
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the run is complete.
type DoneMsg struct{}
