package status

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

// ─── Messages ────────────────────────────────────────────────────────────────

type tickMsg time.Time

type volumesMsg struct {
	volumes []Volume
	err     error
}

// ─── Model ───────────────────────────────────────────────────────────────────

// StatusModel is the bubbletea Model for the volume dashboard.
type StatusModel struct {
	Volumes         []Volume
	Width           int
	Height          int
	Err             error
	refreshInterval time.Duration
	quitting        bool

	src     Source
	targets []engine.Target

	// Free-space ring buffer per mount (last 60 readings).
	FreeHistory map[string][]uint64
}

// NewStatusModel creates a StatusModel with the given refresh cadence.
func NewStatusModel(src Source, targets []engine.Target, refreshInterval time.Duration) StatusModel {
	if refreshInterval <= 0 {
		refreshInterval = time.Second
	}
	return StatusModel{
		Width:           80,
		Height:          24,
		refreshInterval: refreshInterval,
		src:             src,
		targets:         targets,
		FreeHistory:     map[string][]uint64{},
	}
}

func (m StatusModel) doTick() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m StatusModel) collect() tea.Cmd {
	src, targets, timeout := m.src, m.targets, m.refreshInterval
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout+5*time.Second)
		defer cancel()
		vols, err := Collect(ctx, src, targets)
		return volumesMsg{volumes: vols, err: err}
	}
}

// ─── tea.Model interface ─────────────────────────────────────────────────────

func (m StatusModel) Init() tea.Cmd {
	// The first volumesMsg starts the tick loop so collection and display
	// stay sequential.
	return m.collect()
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, m.collect()
		}
		return m, nil

	case tickMsg:
		return m, m.collect()

	case volumesMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, m.doTick()
		}
		m.Err = nil
		m.Volumes = msg.volumes
		history := make(map[string][]uint64, len(msg.volumes))
		for _, v := range msg.volumes {
			history[v.Mount] = appendU64(m.FreeHistory[v.Mount], v.Free, 60)
		}
		m.FreeHistory = history
		return m, m.doTick()
	}

	return m, nil
}

func (m StatusModel) View() string {
	if m.quitting {
		return ""
	}
	return m.renderView()
}

// ─── History helpers ─────────────────────────────────────────────────────────

func appendU64(h []uint64, v uint64, maxLen int) []uint64 {
	h = append(h, v)
	if len(h) > maxLen {
		h = h[1:]
	}
	return h
}
