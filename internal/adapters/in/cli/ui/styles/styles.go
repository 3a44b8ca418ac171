// Package styles holds the lipgloss styles of the ephemera CLI.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorPrimary   = lipgloss.Color("#00cc6a")
	ColorSecondary = lipgloss.Color("#00a0cc")
	ColorWarning   = lipgloss.Color("#fbbf24")
	ColorError     = lipgloss.Color("#ff4444")
	ColorText      = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#e5e5e5"}
	ColorTextMuted = lipgloss.Color("#737373")
	ColorBorder    = lipgloss.Color("#404040")
)

// Status glyphs, plain unicode so no patched font is needed.
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconBullet  = "▸"
	IconArrow   = "→"
)

// Theme contains the composed styles used by the commands.
var Theme = struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Box     lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
	Bold:    lipgloss.NewStyle().Bold(true).Foreground(ColorText),
	Muted:   lipgloss.NewStyle().Foreground(ColorTextMuted),
	Success: lipgloss.NewStyle().Foreground(ColorPrimary),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Key:     lipgloss.NewStyle().Foreground(ColorTextMuted).Width(10),
	Value:   lipgloss.NewStyle().Foreground(ColorSecondary),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1),
}

// RenderSuccess renders msg with the success glyph.
func RenderSuccess(msg string) string {
	return Theme.Success.Render(IconSuccess) + " " + msg
}

// RenderError renders msg with the error glyph.
func RenderError(msg string) string {
	return Theme.Error.Render(IconError) + " " + Theme.Error.Render(msg)
}

// RenderWarning renders msg with the warning glyph.
func RenderWarning(msg string) string {
	return Theme.Warning.Render(IconWarning) + " " + msg
}

// RenderKeyValue renders an aligned "key value" row.
func RenderKeyValue(key, value string) string {
	return Theme.Key.Render(key) + Theme.Value.Render(value)
}
