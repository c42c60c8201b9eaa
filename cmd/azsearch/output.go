package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"azsearch/internal/domain"
	appErrors "azsearch/internal/errors"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var errNoProject = appErrors.New(appErrors.CodeInvalidProject,
	"no project selected (use --project or set devops.project)", nil)

type workItemRow struct {
	ID         int    `json:"id" yaml:"id"`
	Type       string `json:"type" yaml:"type"`
	Title      string `json:"title" yaml:"title"`
	State      string `json:"state" yaml:"state"`
	AssignedTo string `json:"assignedTo,omitempty" yaml:"assignedTo,omitempty"`
	URL        string `json:"url" yaml:"url"`
	Icon       string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

type queryRow struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	URL  string `json:"url" yaml:"url"`
}

type projectRow struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Selected bool   `json:"selected" yaml:"selected"`
}

var (
	styleTableHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

func writeWorkItems(w io.Writer, format string, items []domain.WorkItem, urlFor func(int) string) error {
	rows := make([]workItemRow, 0, len(items))
	for _, wi := range items {
		rows = append(rows, workItemRow{
			ID:         wi.ID,
			Type:       wi.Type,
			Title:      wi.Title,
			State:      wi.State,
			AssignedTo: wi.AssignedTo,
			URL:        urlFor(wi.ID),
			Icon:       wi.IconURI,
		})
	}
	return write(w, format, rows, func() ([]string, [][]string) {
		cells := make([][]string, 0, len(rows))
		for _, r := range rows {
			cells = append(cells, []string{strconv.Itoa(r.ID), r.Type, r.Title, r.State, r.AssignedTo})
		}
		return []string{"ID", "Type", "Title", "State", "Assigned to"}, cells
	})
}

func writeQueries(w io.Writer, format string, queries []domain.Query, urlFor func(string) string) error {
	rows := make([]queryRow, 0, len(queries))
	for _, q := range queries {
		rows = append(rows, queryRow{
			ID:   q.ID,
			Name: q.Name,
			Path: q.Path,
			Type: string(q.Type),
			URL:  urlFor(q.ID),
		})
	}
	return write(w, format, rows, func() ([]string, [][]string) {
		cells := make([][]string, 0, len(queries))
		for _, q := range queries {
			cells = append(cells, []string{q.Name, q.Type.Label(), q.Path})
		}
		return []string{"Name", "Type", "Path"}, cells
	})
}

func writeProjects(w io.Writer, format string, projects []domain.Project, selectedID string) error {
	rows := make([]projectRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, projectRow{ID: p.ID, Name: p.Name, Selected: p.ID == selectedID})
	}
	return write(w, format, rows, func() ([]string, [][]string) {
		cells := make([][]string, 0, len(rows))
		for _, r := range rows {
			mark := ""
			if r.Selected {
				mark = "✓"
			}
			cells = append(cells, []string{mark, r.Name, r.ID})
		}
		return []string{"", "Name", "ID"}, cells
	})
}

func writeIconKeys(w io.Writer, format string, keys []string) error {
	if keys == nil {
		keys = []string{}
	}
	return write(w, format, keys, func() ([]string, [][]string) {
		cells := make([][]string, 0, len(keys))
		for _, k := range keys {
			cells = append(cells, []string{k})
		}
		return []string{"Key"}, cells
	})
}

// write encodes v as JSON or YAML, or renders the table produced by cells.
func write(w io.Writer, format string, v any, cells func() ([]string, [][]string)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatTable, "":
		headers, rows := cells()
		_, err := fmt.Fprintln(w, renderTable(headers, rows))
		return err
	default:
		return appErrors.New(appErrors.CodeConfigurationError,
			fmt.Sprintf("unknown output format %q (want table, json or yaml)", format), nil)
	}
}

func renderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return "No results."
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			return styleTableCell
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
