package ui

import "github.com/charmbracelet/lipgloss"

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	ColorCoral     = lipgloss.AdaptiveColor{Light: "#e11d48", Dark: "#fb7185"}
	ColorText      = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#f3f4f6"}
	ColorTextDim   = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#d1d5db"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconSuccess = "✓"
	IconEmpty   = "○"
	IconError   = "✗"
	IconWarning = "!"
	IconSkipped = "–"
	IconPipe    = "│"
	IconBullet  = "•"
	IconDiamond = "◆"
	IconChevron = "›"
)

// ─── Styles ──────────────────────────────────────────────────────────────────

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	HintBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	TextStyle    = lipgloss.NewStyle().Foreground(ColorText)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)

	TagWarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning).
			Padding(0, 1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2)
)
