// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	TextPrimaryBoldStyle    lipgloss.Style
	TextForegroundStyle     lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style
)

// Task rendering styles.
var (
	TaskIDStyle    lipgloss.Style
	TaskTitleStyle lipgloss.Style
	TaskTypeStyle  lipgloss.Style
	SectionStyle   lipgloss.Style
	DetailKeyStyle lipgloss.Style

	TableHeaderStyle lipgloss.Style
	TableCellStyle   lipgloss.Style
	TableBorderStyle lipgloss.Style
)

var (
	statusStyles   map[string]lipgloss.Style
	priorityStyles []lipgloss.Style
	unknownStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	TextPrimaryBoldStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	TextForegroundStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	TextForegroundBoldStyle = lipgloss.NewStyle().Foreground(p.Foreground).Bold(true)
	TextMutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	TextWarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(p.Error)

	TaskIDStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	TaskTitleStyle = lipgloss.NewStyle().Foreground(p.Foreground).Bold(true)
	TaskTypeStyle = lipgloss.NewStyle().Foreground(p.Muted)
	SectionStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	DetailKeyStyle = lipgloss.NewStyle().Foreground(p.Muted).Width(10)

	TableHeaderStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true).Padding(0, 1)
	TableCellStyle = lipgloss.NewStyle().Foreground(p.Foreground).Padding(0, 1)
	TableBorderStyle = lipgloss.NewStyle().Foreground(p.Surface)

	statusStyles = map[string]lipgloss.Style{
		"open":        lipgloss.NewStyle().Foreground(p.Warning),
		"in_progress": lipgloss.NewStyle().Foreground(p.Primary),
		"to_review":   lipgloss.NewStyle().Foreground(p.Accent),
		"closed":      lipgloss.NewStyle().Foreground(p.Success),
	}

	priorityStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		lipgloss.NewStyle().Foreground(p.Warning),
		lipgloss.NewStyle().Foreground(p.Foreground),
		lipgloss.NewStyle().Foreground(p.Muted),
		lipgloss.NewStyle().Foreground(p.Muted),
	}

	unknownStyle = lipgloss.NewStyle().Foreground(p.Foreground)
}

// StatusStyle returns the style for a task status.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return unknownStyle
}

// PriorityStyle returns the style for a priority; lower is more urgent.
func PriorityStyle(priority int) lipgloss.Style {
	if priority >= 0 && priority < len(priorityStyles) {
		return priorityStyles[priority]
	}
	return unknownStyle
}

// StatusIcon returns the list glyph for a task status.
func StatusIcon(status string) string {
	switch status {
	case "open":
		return IconOpen
	case "in_progress":
		return IconInProgress
	case "to_review":
		return IconToReview
	case "closed":
		return IconClosed
	default:
		return IconUnknown
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
