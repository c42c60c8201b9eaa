package ui

import (
	"fmt"
	"strings"

	"azsearch/internal/domain"
)

const minDetailWidth = 30

func workItemMarkdown(wi domain.WorkItem, project, url string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %d %s\n\n", wi.ID, escapeMarkdown(wi.Title))
	writeField(&b, "Type", wi.Type)
	writeField(&b, "State", wi.State)
	writeField(&b, "Assigned to", orDash(wi.AssignedTo))
	writeField(&b, "Project", orDash(project))
	fmt.Fprintf(&b, "\n%s\n", url)
	return b.String()
}

func queryMarkdown(q domain.Query, project, url string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(q.Name))
	if q.Path != "" {
		writeField(&b, "Path", q.Path)
	}
	writeField(&b, "Type", orDash(q.Type.Label()))
	writeField(&b, "Project", orDash(project))
	fmt.Fprintf(&b, "\n%s\n", url)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "- **%s:** %s\n", label, escapeMarkdown(value))
}

var markdownEscaper = strings.NewReplacer(`*`, `\*`, `_`, `\_`, "`", "\\`", `[`, `\[`, `]`, `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// refreshDetail re-renders the detail pane for the selected row.
func (m *App) refreshDetail() {
	if !m.showDetail || m.viewport.Width <= 0 {
		return
	}
	if m.renderMarkdown == nil || m.renderWidth != m.viewport.Width {
		m.renderMarkdown = buildMarkdownRenderer(m.markdownStyle, m.viewport.Width)
		m.renderWidth = m.viewport.Width
	}

	project := m.svc.SelectedProject().Name
	var md string
	switch m.mode {
	case ModeWorkItems:
		if wi, ok := m.selectedWorkItem(); ok {
			md = workItemMarkdown(wi, project, m.svc.WorkItemURL(wi.ID))
		}
	case ModeQueries:
		if q, ok := m.selectedQuery(); ok {
			md = queryMarkdown(q, project, m.svc.QueryURL(q.ID))
		}
	}
	if md == "" {
		m.viewport.SetContent(styleMuted().Render("Nothing selected"))
		return
	}
	m.viewport.SetContent(m.renderMarkdown(md))
	m.viewport.GotoTop()
}
