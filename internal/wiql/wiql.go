// Package wiql turns free-text search input into Work Item Query Language
// statements for the Azure DevOps work tracking API.
//
// Input grammar, tokens separated by whitespace or double quotes:
//
//	123        exact work item id (whole input must be digits)
//	@me        assigned to the current user
//	@name      assigned to someone whose name contains "name"
//	#type      work item type contains "type"
//	word       title contains the word
//
// Quotes are only stripped during tokenization. Values are not escaped any
// further, so the builder must not be fed input it cannot represent.
package wiql

import (
	"fmt"
	"regexp"
	"strings"
)

// Field reference names used in generated queries.
const (
	FieldID           = "System.Id"
	FieldTitle        = "System.Title"
	FieldState        = "System.State"
	FieldWorkItemType = "System.WorkItemType"
	FieldAssignedTo   = "System.AssignedTo"
	FieldChangedDate  = "System.ChangedDate"
)

// Columns lists the fields every generated query selects, in order.
var Columns = []string{FieldID, FieldTitle, FieldState, FieldWorkItemType, FieldAssignedTo}

// CurrentUser is the WIQL macro for the authenticated user.
const CurrentUser = "@me"

// RecentWindowDays bounds the recently-changed query.
const RecentWindowDays = 30

var (
	idPattern      = regexp.MustCompile(`^\d+$`)
	termSeparators = regexp.MustCompile(`[\s"]+`)
	wordSeparators = regexp.MustCompile(`[-+!*&]`)
)

// Terms is the parsed form of a search string.
type Terms struct {
	// ID is set when the whole input is a work item id.
	ID         string
	AssignedTo []string
	Types      []string
	Words      []string
}

// Empty reports whether the terms would produce no filter at all.
func (t Terms) Empty() bool {
	return t.ID == "" && len(t.AssignedTo) == 0 && len(t.Types) == 0 && len(t.Words) == 0
}

// Parse tokenizes a search string.
func Parse(searchText string) Terms {
	text := strings.TrimSpace(searchText)
	if text == "" {
		return Terms{}
	}
	if idPattern.MatchString(text) {
		return Terms{ID: text}
	}

	var terms Terms
	for _, token := range termSeparators.Split(text, -1) {
		switch {
		case token == "":
		case strings.HasPrefix(token, "@"):
			if value := token[1:]; value != "" {
				terms.AssignedTo = append(terms.AssignedTo, value)
			}
		case strings.HasPrefix(token, "#"):
			if value := token[1:]; value != "" {
				terms.Types = append(terms.Types, value)
			}
		default:
			for _, word := range wordSeparators.Split(token, -1) {
				if word != "" {
					terms.Words = append(terms.Words, word)
				}
			}
		}
	}
	return terms
}

// Clauses returns the WHERE clauses for the terms: assignee clauses first,
// then type clauses, then title clauses.
func (t Terms) Clauses() []string {
	if t.ID != "" {
		return []string{fmt.Sprintf("[%s] = %s", FieldID, t.ID)}
	}
	clauses := make([]string, 0, len(t.AssignedTo)+len(t.Types)+len(t.Words))
	for _, who := range t.AssignedTo {
		if strings.EqualFold(who, "me") {
			clauses = append(clauses, fmt.Sprintf("[%s] = %s", FieldAssignedTo, CurrentUser))
			continue
		}
		clauses = append(clauses, fmt.Sprintf("[%s] Contains \"%s\"", FieldAssignedTo, who))
	}
	for _, typ := range t.Types {
		clauses = append(clauses, fmt.Sprintf("[%s] Contains \"%s\"", FieldWorkItemType, typ))
	}
	for _, word := range t.Words {
		clauses = append(clauses, fmt.Sprintf("[%s] Contains Words \"%s\"", FieldTitle, word))
	}
	return clauses
}

// Build converts search text into a WIQL statement. It returns "" when the
// input yields no filter, in which case no search should be issued.
func Build(searchText string) string {
	terms := Parse(searchText)
	if terms.Empty() {
		return ""
	}
	if terms.ID != "" {
		return selectFrom() + " WHERE " + terms.Clauses()[0]
	}
	return selectFrom() + " WHERE " + strings.Join(terms.Clauses(), " AND ") + orderBy()
}

// Recent returns the query for work items changed within the last
// RecentWindowDays days, newest first.
func Recent() string {
	return fmt.Sprintf("%s WHERE [%s] > @Today - %d%s", selectFrom(), FieldChangedDate, RecentWindowDays, orderBy())
}

func selectFrom() string {
	cols := make([]string, len(Columns))
	for i, c := range Columns {
		cols[i] = "[" + c + "]"
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM WorkItems"
}

func orderBy() string {
	return fmt.Sprintf(" ORDER BY [%s] DESC", FieldChangedDate)
}
