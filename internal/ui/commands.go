package ui

import (
	"context"
	"os/exec"
	"runtime"

	"azsearch/internal/debug"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Overridden in tests.
var (
	writeClipboard = clipboard.WriteAll
	openURL        = openInBrowser
)

func loadProjectsCmd(svc Searcher) tea.Cmd {
	return func() tea.Msg {
		projects, err := svc.LoadProjects(context.Background())
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func workItemSearchCmd(ctx context.Context, svc Searcher, seq int, text string) tea.Cmd {
	return func() tea.Msg {
		items, err := svc.WorkItems(ctx, text)
		return searchResultMsg{seq: seq, mode: ModeWorkItems, items: items, err: err}
	}
}

func recentCmd(ctx context.Context, svc Searcher, seq int) tea.Cmd {
	return func() tea.Msg {
		items, err := svc.Recent(ctx)
		return searchResultMsg{seq: seq, mode: ModeWorkItems, items: items, err: err}
	}
}

func querySearchCmd(ctx context.Context, svc Searcher, seq int, text string) tea.Cmd {
	return func() tea.Msg {
		queries, err := svc.Queries(ctx, text)
		return searchResultMsg{seq: seq, mode: ModeQueries, queries: queries, err: err}
	}
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		debug.Logf("opening %s", url)
		return actionDoneMsg{err: openURL(url)}
	}
}

// openInBrowser hands url to the desktop's default handler without waiting
// for it to exit.
func openInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
