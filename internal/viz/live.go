// Package viz renders a live terminal view of a running simulation:
// strip charts of body displacement and damper force fed by a simulation
// observer on another goroutine.
package viz

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"suspensim/internal/sim"
)

const (
	historyCapacity = 400
	graphHeight     = 8
	frameRate       = 30
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Feed buffers trace rows written by the simulation goroutine and read by
// the UI at frame rate. It implements sim.Observer.
type Feed struct {
	mu       sync.Mutex
	records  []sim.StepRecord
	last     sim.StepRecord
	steps    int
	finished bool
	err      error
}

func NewFeed() *Feed {
	return &Feed{records: make([]sim.StepRecord, 0, historyCapacity)}
}

func (f *Feed) OnStep(rec sim.StepRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = rec
	f.steps++
	f.records = append(f.records, rec)
	if len(f.records) > historyCapacity {
		f.records = f.records[len(f.records)-historyCapacity:]
	}
}

// Finish marks the run complete; the view keeps the final frame on screen.
func (f *Feed) Finish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = true
	f.err = err
}

func (f *Feed) snapshot() (disp, force []float64, last sim.StepRecord, steps int, finished bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	disp = make([]float64, len(f.records))
	force = make([]float64, len(f.records))
	for i, rec := range f.records {
		disp[i] = rec.SprungDisp * 1000 // mm reads better at ride scale
		force[i] = rec.Force
	}
	return disp, force, f.last, f.steps, f.finished, f.err
}

type TickMsg time.Time

// Model is the bubbletea model for the live view.
type Model struct {
	feed  *Feed
	width int
}

func NewModel(feed *Feed) Model {
	return Model{feed: feed, width: 72}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.width = msg.Width - 8
		}
	case TickMsg:
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	disp, force, last, steps, finished, err := m.feed.snapshot()

	header := headerStyle.Render("suspensim: quarter-car live trace")

	body := "waiting for samples..."
	if len(disp) > 1 {
		dispGraph := asciigraph.Plot(disp,
			asciigraph.Height(graphHeight),
			asciigraph.Width(m.width),
			asciigraph.Caption("body displacement (mm)"))
		forceGraph := asciigraph.Plot(force,
			asciigraph.Height(graphHeight),
			asciigraph.Width(m.width),
			asciigraph.Caption("damper force (N)"))
		body = graphStyle.Render(dispGraph) + "\n" + graphStyle.Render(forceGraph)
	}

	stats := fmt.Sprintf("%s%s\n%s%s\n%s%s",
		labelStyle.Render("t"), valueStyle.Render(fmt.Sprintf("%.3f s", last.T)),
		labelStyle.Render("steps"), valueStyle.Render(fmt.Sprintf("%d", steps)),
		labelStyle.Render("coefficient"), valueStyle.Render(fmt.Sprintf("%.1f N·s/m", last.Coefficient)),
	)

	status := ""
	if finished {
		if err != nil {
			status = helpStyle.Render(fmt.Sprintf("run failed: %v (q to quit)", err))
		} else {
			status = helpStyle.Render("run complete (q to quit)")
		}
	} else {
		status = helpStyle.Render("q to quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, stats, status)
}
