package wiql

import (
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const selectPrefix = "SELECT [System.Id], [System.Title], [System.State], [System.WorkItemType], [System.AssignedTo] FROM WorkItems"

func TestBuildNumericInputSelectsByID(t *testing.T) {
	for _, input := range []string{"123", "0", "007", " 42 ", "9999999"} {
		got := Build(input)
		want := selectPrefix + " WHERE [System.Id] = " + strings.TrimSpace(input)
		if got != want {
			t.Fatalf("Build(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBuildNumericInputIsExactForManyIDs(t *testing.T) {
	for id := 1; id < 5000; id += 37 {
		input := strconv.Itoa(id)
		got := Build(input)
		if !strings.HasSuffix(got, "WHERE [System.Id] = "+input) {
			t.Fatalf("Build(%q) = %q", input, got)
		}
		if strings.Contains(got, "Contains") || strings.Contains(got, "ORDER BY") {
			t.Fatalf("id lookup must not carry other clauses: %q", got)
		}
	}
}

func TestBuildScenario(t *testing.T) {
	got := Build("@me #bug login")
	want := selectPrefix +
		` WHERE [System.AssignedTo] = @me AND [System.WorkItemType] Contains "bug" AND [System.Title] Contains Words "login"` +
		" ORDER BY [System.ChangedDate] DESC"
	if got != want {
		t.Fatalf("Build() mismatch\n got: %s\nwant: %s", got, want)
	}
}

func TestBuildEmptyInputs(t *testing.T) {
	inputs := []string{"", "   ", "\t\n", "-", "+!*&", "- + ! * &", `"" ""`, "@", "#", "@ # -", `"-"`}
	for _, input := range inputs {
		if got := Build(input); got != "" {
			t.Fatalf("Build(%q) = %q, want empty", input, got)
		}
		if !Parse(input).Empty() {
			t.Fatalf("Parse(%q) should be empty", input)
		}
	}
}

func TestClauses(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "current user is case insensitive",
			input: "@ME",
			want:  []string{"[System.AssignedTo] = @me"},
		},
		{
			name:  "other assignee uses contains",
			input: "@alice",
			want:  []string{`[System.AssignedTo] Contains "alice"`},
		},
		{
			name:  "meh is not me",
			input: "@meh",
			want:  []string{`[System.AssignedTo] Contains "meh"`},
		},
		{
			name:  "type filter",
			input: "#task",
			want:  []string{`[System.WorkItemType] Contains "task"`},
		},
		{
			name:  "quotes are stripped",
			input: `"fix login" crash`,
			want: []string{
				`[System.Title] Contains Words "fix"`,
				`[System.Title] Contains Words "login"`,
				`[System.Title] Contains Words "crash"`,
			},
		},
		{
			name:  "punctuation splits words",
			input: "sign-in+out!now*&",
			want: []string{
				`[System.Title] Contains Words "sign"`,
				`[System.Title] Contains Words "in"`,
				`[System.Title] Contains Words "out"`,
				`[System.Title] Contains Words "now"`,
			},
		},
		{
			name:  "prefixed tokens keep punctuation",
			input: "#user-story @jane-doe",
			want: []string{
				`[System.AssignedTo] Contains "jane-doe"`,
				`[System.WorkItemType] Contains "user-story"`,
			},
		},
		{
			name:  "mixed numbers are words",
			input: "123 456",
			want: []string{
				`[System.Title] Contains Words "123"`,
				`[System.Title] Contains Words "456"`,
			},
		},
		{
			name:  "groups ordered assignee type title",
			input: "crash #bug @me login #epic",
			want: []string{
				"[System.AssignedTo] = @me",
				`[System.WorkItemType] Contains "bug"`,
				`[System.WorkItemType] Contains "epic"`,
				`[System.Title] Contains Words "crash"`,
				`[System.Title] Contains Words "login"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input).Clauses()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Clauses(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
			built := Build(tt.input)
			if !strings.HasPrefix(built, selectPrefix+" WHERE ") {
				t.Fatalf("Build(%q) = %q", tt.input, built)
			}
			if !strings.HasSuffix(built, " ORDER BY [System.ChangedDate] DESC") {
				t.Fatalf("Build(%q) missing ordering: %q", tt.input, built)
			}
			if strings.Count(built, " AND ") != len(tt.want)-1 {
				t.Fatalf("Build(%q) joined incorrectly: %q", tt.input, built)
			}
		})
	}
}

func TestPunctuationOnlyTokensAddNoTitleClause(t *testing.T) {
	terms := Parse("login --- !!! +&*")
	if diff := cmp.Diff([]string{"login"}, terms.Words); diff != "" {
		t.Fatalf("Words mismatch (-want +got):\n%s", diff)
	}
}

func TestRecent(t *testing.T) {
	want := selectPrefix + " WHERE [System.ChangedDate] > @Today - 30 ORDER BY [System.ChangedDate] DESC"
	if got := Recent(); got != want {
		t.Fatalf("Recent() = %q, want %q", got, want)
	}
}
