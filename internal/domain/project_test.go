package domain

import (
	"testing"

	"azsearch/internal/devops"
	appErrors "azsearch/internal/errors"

	"github.com/google/go-cmp/cmp"
)

const (
	fabrikamID = "eb6e4656-77fc-42a1-9181-4c6d8e9da5d1"
	contosoID  = "6ce954b1-ce1f-45d1-b94d-e6bf2464ba2c"
)

func TestProjectsFromAPI(t *testing.T) {
	got := ProjectsFromAPI([]devops.Project{
		{ID: fabrikamID, Name: "Fabrikam"},
		{ID: "not-a-guid", Name: "Broken"},
		{ID: "{" + contosoID + "}", Name: "Contoso"},
		{ID: contosoID},
	})
	want := []Project{
		{ID: fabrikamID, Name: "Fabrikam"},
		{ID: contosoID, Name: "Contoso"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projects mismatch (-want +got):\n%s", diff)
	}
}

func TestNewProjectFromAPIRejectsBadID(t *testing.T) {
	_, err := NewProjectFromAPI(devops.Project{ID: "p1", Name: "x"})
	if !appErrors.IsCode(err, appErrors.CodeInvalidProject) {
		t.Fatalf("expected invalid project error, got %v", err)
	}
}

func TestFindProject(t *testing.T) {
	projects := []Project{{ID: fabrikamID, Name: "Fabrikam"}, {ID: contosoID, Name: "Contoso"}}

	if got := FindProjectIDByName(projects, "Contoso"); got != contosoID {
		t.Fatalf("expected %s, got %q", contosoID, got)
	}
	if got := FindProjectIDByName(projects, "contoso"); got != "" {
		t.Fatalf("lookup should be case-sensitive, got %q", got)
	}
	if got := FindProjectNameByID(projects, fabrikamID); got != "Fabrikam" {
		t.Fatalf("expected Fabrikam, got %q", got)
	}
	if got := FindProjectNameByID(nil, fabrikamID); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
}
