// Package theme provides the semantic colours of the azsearch palette.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the semantic colours used by the UI. All methods return
// AdaptiveColor so light and dark terminals both read well.
type Theme interface {
	Primary() lipgloss.AdaptiveColor   // Header, prompt, focused borders
	Secondary() lipgloss.AdaptiveColor // Field labels, links
	Accent() lipgloss.AdaptiveColor    // Work item ids

	Error() lipgloss.AdaptiveColor
	Success() lipgloss.AdaptiveColor

	Text() lipgloss.AdaptiveColor
	TextMuted() lipgloss.AdaptiveColor

	Selection() lipgloss.AdaptiveColor // Selected row background
	Border() lipgloss.AdaptiveColor
}

// palette is a Theme backed by fixed light/dark pairs.
type palette struct {
	primary, secondary, accent lipgloss.AdaptiveColor
	err, success               lipgloss.AdaptiveColor
	text, muted                lipgloss.AdaptiveColor
	selection, border          lipgloss.AdaptiveColor
}

func (p palette) Primary() lipgloss.AdaptiveColor { return p.primary }
func (p palette) Secondary() lipgloss.AdaptiveColor { return p.secondary }
func (p palette) Accent() lipgloss.AdaptiveColor { return p.accent }
func (p palette) Error() lipgloss.AdaptiveColor { return p.err }
func (p palette) Success() lipgloss.AdaptiveColor { return p.success }
func (p palette) Text() lipgloss.AdaptiveColor { return p.text }
func (p palette) TextMuted() lipgloss.AdaptiveColor { return p.muted }
func (p palette) Selection() lipgloss.AdaptiveColor { return p.selection }
func (p palette) Border() lipgloss.AdaptiveColor { return p.border }

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}
