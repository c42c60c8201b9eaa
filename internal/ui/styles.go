package ui

import (
	"strings"

	"azsearch/internal/domain"
	"azsearch/internal/ui/theme"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var cWhite = lipgloss.Color("255")

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(cWhite).
		Background(theme.Current().Primary()).
		Bold(true).
		Padding(0, 1)
}

func styleTabActive() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(theme.Current().Primary()).
		Bold(true).
		Underline(true)
}

func styleTabInactive() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().TextMuted())
}

func stylePrompt() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Primary()).Bold(true)
}

func styleID() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Accent()).Bold(true)
}

func styleText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Text())
}

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().TextMuted())
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.Current().Selection()).
		Foreground(theme.Current().Text()).
		Bold(true)
}

func styleDetailPane() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current().Border()).
		Padding(0, 1)
}

func styleOverlay() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current().Primary()).
		Padding(1, 2)
}

func styleErrorToast() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current().Error()).
		Foreground(theme.Current().Text()).
		Padding(0, 1)
}

func styleErrorTitle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Current().Error()).Bold(true)
}

func styleSuccessToast() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Current().Success()).
		Foreground(theme.Current().Text()).
		Padding(0, 1)
}

var stateColors = map[domain.StateColor]lipgloss.Color{
	domain.StateGray:       lipgloss.Color("245"),
	domain.StateLightGray:  lipgloss.Color("252"),
	domain.StateLightGreen: lipgloss.Color("120"),
	domain.StateBlue:       lipgloss.Color("33"),
	domain.StateRed:        lipgloss.Color("196"),
	domain.StatePink:       lipgloss.Color("212"),
	domain.StateOrange:     lipgloss.Color("208"),
	domain.StateGreen:      lipgloss.Color("34"),
}

func styleState(state string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(stateColors[domain.ColorForState(state)])
}

// typeGlyphs maps icon keys to their outline and solid markers.
var typeGlyphs = map[string][2]string{
	"bug":        {"◇", "◆"},
	"epic":       {"☆", "★"},
	"feature":    {"▷", "▶"},
	"impediment": {"⊘", "⊗"},
	"pbi":        {"▭", "▬"},
	"portfolio":  {"□", "■"},
	"task":       {"☐", "▣"},
	"testcase":   {"◌", "◉"},
	"userstory":  {"○", "●"},
}

var typeColors = map[string]lipgloss.Color{
	"bug":        lipgloss.Color("196"),
	"epic":       lipgloss.Color("208"),
	"feature":    lipgloss.Color("135"),
	"impediment": lipgloss.Color("203"),
	"pbi":        lipgloss.Color("39"),
	"portfolio":  lipgloss.Color("99"),
	"task":       lipgloss.Color("220"),
	"testcase":   lipgloss.Color("245"),
	"userstory":  lipgloss.Color("33"),
}

// typeGlyph returns the marker for a work item type in the configured style.
func typeGlyph(workItemType string, solid bool) string {
	glyphs := typeGlyphs[domain.TypeKey(workItemType)]
	if solid {
		return glyphs[1]
	}
	return glyphs[0]
}

func styleType(workItemType string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(typeColors[domain.TypeKey(workItemType)])
}

const queryGlyph = "▤"

func buildMarkdownRenderer(format string, width int) func(string) string {
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := strings.ToLower(strings.TrimSpace(format))
	if style == "" || style == "rich" {
		style = "dark"
	}
	if style == "plain" {
		return fallback
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}
