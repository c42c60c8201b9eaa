package ui

import (
	"strings"
	"testing"

	"azsearch/internal/domain"
)

func TestWorkItemMarkdown(t *testing.T) {
	wi := domain.WorkItem{ID: 42, Title: "Fix *bold* [link]", State: "Active", Type: "Bug"}
	got := workItemMarkdown(wi, "Fabrikam", "https://dev.azure.com/x/Fabrikam/_workitems/edit/42")

	for _, want := range []string{
		`# 42 Fix \*bold\* \[link\]`,
		"- **Type:** Bug",
		"- **State:** Active",
		"- **Assigned to:** —",
		"- **Project:** Fabrikam",
		"https://dev.azure.com/x/Fabrikam/_workitems/edit/42",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("markdown missing %q:\n%s", want, got)
		}
	}
}

func TestQueryMarkdown(t *testing.T) {
	q := domain.Query{ID: "q-1", Name: "My_bugs", Path: "My Queries/My_bugs", Type: domain.QueryTypeOneHop}
	got := queryMarkdown(q, "", "https://example/q-1")

	for _, want := range []string{
		`# My\_bugs`,
		`- **Path:** My Queries/My\_bugs`,
		"- **Type:** Direct links",
		"- **Project:** —",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("markdown missing %q:\n%s", want, got)
		}
	}

	noPath := queryMarkdown(domain.Query{ID: "q-2", Name: "Plain"}, "P", "u")
	if strings.Contains(noPath, "Path") {
		t.Fatalf("expected no path field:\n%s", noPath)
	}
}

func TestPlainRendererWraps(t *testing.T) {
	render := buildMarkdownRenderer("plain", 10)
	got := render("one two three four")
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 10 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
}

func TestUnknownMarkdownStyleFallsBack(t *testing.T) {
	render := buildMarkdownRenderer("no-such-style", 20)
	if got := render("hello"); !strings.Contains(got, "hello") {
		t.Fatalf("expected fallback rendering, got %q", got)
	}
}
