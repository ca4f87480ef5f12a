package progress

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eksward/eksward/internal/assess"
)

// ClusterStatus tracks where a cluster is in the run.
type ClusterStatus int

const (
	StatusPending ClusterStatus = iota
	StatusRunning
	StatusDone
	StatusFailed
)

// ClusterRow is one cluster line in the display.
type ClusterRow struct {
	Name      string
	Status    ClusterStatus
	Message   string
	StartedAt time.Time
	Elapsed   time.Duration
}

// Model is the Bubble Tea model for the assessment progress display.
type Model struct {
	// Run info
	Region        string
	TargetVersion string

	// Cluster rows, in announcement order
	Rows []ClusterRow

	// Animation
	SpinnerFrame int
	StartTime    time.Time

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
}

// New creates a progress model for an assessment run.
func New(region, targetVersion string) Model {
	return Model{
		Region:        region,
		TargetVersion: targetVersion,
		StartTime:     time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case EventMsg:
		m.applyEvent(msg.Event)

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyEvent(ev assess.Event) {
	switch ev.Type {
	case assess.EventRunStarted:
		rows := make([]ClusterRow, len(ev.Clusters))
		for i, name := range ev.Clusters {
			rows[i] = ClusterRow{Name: name, Status: StatusPending}
		}
		m.Rows = rows

	case assess.EventClusterStarted:
		row := m.row(ev.Cluster)
		row.Status = StatusRunning
		row.StartedAt = time.Now()

	case assess.EventClusterCompleted:
		row := m.row(ev.Cluster)
		row.Status = StatusDone
		row.Message = ev.Message
		if !row.StartedAt.IsZero() {
			row.Elapsed = time.Since(row.StartedAt)
		}

	case assess.EventClusterFailed:
		row := m.row(ev.Cluster)
		row.Status = StatusFailed
		row.Message = ev.Message
		if !row.StartedAt.IsZero() {
			row.Elapsed = time.Since(row.StartedAt)
		}
	}
}

// row returns the row for a cluster, adding one for clusters that were
// not part of the run announcement.
func (m *Model) row(name string) *ClusterRow {
	for i := range m.Rows {
		if m.Rows[i].Name == name {
			return &m.Rows[i]
		}
	}
	m.Rows = append(m.Rows, ClusterRow{Name: name})
	return &m.Rows[len(m.Rows)-1]
}

func (m Model) finished() int {
	n := 0
	for _, row := range m.Rows {
		if row.Status == StatusDone || row.Status == StatusFailed {
			n++
		}
	}
	return n
}

func (m Model) failed() int {
	n := 0
	for _, row := range m.Rows {
		if row.Status == StatusFailed {
			n++
		}
	}
	return n
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/4, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
