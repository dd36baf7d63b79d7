package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/wincache/internal/engine"
)

// ─── Messages ────────────────────────────────────────────────────────────────

type eventMsg struct{ ev engine.Event }

// maxHistory is how many finished targets stay visible above the bar.
const maxHistory = 8

// ─── Model ───────────────────────────────────────────────────────────────────

// ProgressModel renders a running Analyze or Cleanup. It only observes
// events; the run itself happens on another goroutine.
type ProgressModel struct {
	title   string
	mode    engine.Mode
	spinner spinner.Model
	bar     progress.Model
	cancel  func()

	percent      float64
	current      string
	currentPath  string
	currentFiles uint
	currentBytes uint64
	totalBytes   uint64
	history      []string

	cancelling bool
	done       bool
	width      int
}

// NewProgressModel creates the model. cancel is invoked once when the user
// presses q, esc or ctrl+c.
func NewProgressModel(title string, mode engine.Mode, cancel func()) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorCoral)

	return ProgressModel{
		title:   title,
		mode:    mode,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(48)),
		cancel:  cancel,
		width:   80,
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 8; w > 10 && w < 72 {
			m.bar.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if !m.cancelling && !m.done {
				m.cancelling = true
				if m.cancel != nil {
					m.cancel()
				}
			}
		}
		return m, nil

	case eventMsg:
		return m.apply(msg.ev)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ProgressModel) apply(ev engine.Event) (tea.Model, tea.Cmd) {
	m.percent = ev.Percent() / 100

	switch e := ev.(type) {
	case engine.TargetStarted:
		m.current = e.DisplayName
		m.currentPath = ""
		m.currentFiles = 0
		m.currentBytes = 0

	case engine.FileProcessed:
		m.currentPath = e.Path
		m.currentFiles = e.TargetFiles
		m.currentBytes = e.TargetBytes

	case engine.TargetFinished:
		m.totalBytes += e.Result.BytesFreed
		line := fmt.Sprintf("%s  %s", e.Result.DisplayName, resultLine(e.Result))
		m.history = append(m.history, styleResult(e.Result).Render(line))
		if len(m.history) > maxHistory {
			m.history = m.history[1:]
		}
		m.current = ""

	case engine.RunFinished:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func styleResult(r engine.TargetResult) lipgloss.Style {
	switch {
	case r.Status == engine.StatusFailed:
		return ErrorStyle
	case r.Status == engine.StatusSkipped, r.Status == engine.StatusCancelled:
		return WarningStyle
	case r.FilesFailed > 0:
		return WarningStyle
	case r.Mode == engine.Analyze && r.FilesScanned == 0:
		return MutedStyle
	}
	return SuccessStyle
}

func (m ProgressModel) View() string {
	if m.done {
		return ""
	}

	var s strings.Builder
	s.WriteString(TitleStyle.Render("  " + IconDiamond + " " + m.title))
	s.WriteString("\n\n")

	for _, line := range m.history {
		s.WriteString("  " + line + "\n")
	}
	if len(m.history) > 0 {
		s.WriteString("\n")
	}

	if m.current != "" {
		verb := "Cleaning"
		if m.mode == engine.Analyze {
			verb = "Analyzing"
		}
		s.WriteString(fmt.Sprintf("  %s %s %s\n", m.spinner.View(), verb, TextStyle.Render(m.current)))
		stats := fmt.Sprintf("    %s files  %s  %s", FormatCount(m.currentFiles), IconPipe, FormatSize(m.currentBytes))
		s.WriteString(MutedStyle.Render(stats) + "\n")
		if m.currentPath != "" {
			s.WriteString(MutedStyle.Render("    "+Truncate(m.currentPath, m.width-6)) + "\n")
		}
	}

	s.WriteString("\n  " + m.bar.ViewAs(m.percent) + "\n\n")

	label := "Freed so far"
	if m.mode == engine.Analyze {
		label = "Reclaimable so far"
	}
	s.WriteString(MutedStyle.Render(fmt.Sprintf("  %s: %s", label, FormatSize(m.totalBytes))) + "\n")

	if m.cancelling {
		s.WriteString(TagWarningStyle.Render("  Stopping after the current entry…") + "\n")
	} else {
		s.WriteString(HintBarStyle.Render("  q / esc / ctrl+c  cancel") + "\n")
	}
	return s.String()
}

// ─── Runner ──────────────────────────────────────────────────────────────────

// RunWithProgress executes targets on the coordinator while a bubbletea
// program renders progress. extra receives every event as well (e.g. the
// run log). The summary is returned even when the UI fails.
func RunWithProgress(ctx context.Context, coord *engine.Coordinator, targets []engine.Target, mode engine.Mode, title string, extra engine.Sink) (engine.RunSummary, error) {
	p := tea.NewProgram(NewProgressModel(title, mode, coord.RequestCancel))

	var summary engine.RunSummary
	done := make(chan struct{})
	go func() {
		defer close(done)
		sink := engine.MultiSink(extra, engine.SinkFunc(func(ev engine.Event) {
			p.Send(eventMsg{ev})
		}))
		summary = coord.Execute(ctx, targets, mode, sink)
	}()

	if _, err := p.Run(); err != nil {
		coord.RequestCancel()
		<-done
		return summary, fmt.Errorf("progress display failed: %w", err)
	}
	<-done
	return summary, nil
}
