package main

import (
	"bytes"
	"strings"
	"testing"

	"azsearch/internal/domain"
)

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeQueries(&buf, formatTable, nil, func(string) string { return "" }); err != nil {
		t.Fatalf("writeQueries: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "No results." {
		t.Fatalf("expected empty table message, got %q", got)
	}
}

func TestWriteProjectsTable(t *testing.T) {
	var buf bytes.Buffer
	projects := []domain.Project{
		{ID: "eb6e4656-77fc-42a1-9181-4c6d8e9da5d1", Name: "Fabrikam Fiber"},
		{ID: "6ce954b1-ce1f-45d1-b94d-e6bf2464ba2c", Name: "Contoso"},
	}
	if err := writeProjects(&buf, "", projects, projects[1].ID); err != nil {
		t.Fatalf("writeProjects: %v", err)
	}
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "Contoso") && !strings.Contains(line, "✓") {
			t.Fatalf("selected project not marked: %q", line)
		}
		if strings.Contains(line, "Fabrikam") && strings.Contains(line, "✓") {
			t.Fatalf("unselected project marked: %q", line)
		}
	}
}

func TestSortedKeys(t *testing.T) {
	got := sortedKeys(map[string]string{"b!!Task": "", "a!!Bug": "", "a!!Epic": ""})
	want := []string{"a!!Bug", "a!!Epic", "b!!Task"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
