package domain

import "strings"

// StateColor names the colour used for a workflow state marker.
type StateColor string

const (
	StateGray       StateColor = "gray"
	StateLightGray  StateColor = "lightgray"
	StateLightGreen StateColor = "lightgreen"
	StateBlue       StateColor = "blue"
	StateRed        StateColor = "red"
	StatePink       StateColor = "pink"
	StateOrange     StateColor = "orange"
	StateGreen      StateColor = "green"
)

var stateColors = map[string]StateColor{
	"Approved":    StateLightGray,
	"By Design":   StateLightGreen,
	"In Progress": StateBlue,
	"Blocked":     StateRed,
	"No Repro":    StateBlue,
	"Won't Fix":   StateRed,
	"Testing":     StatePink,
	"Resolved":    StateOrange,
	"Re-Open":     StateLightGray,
	"Done":        StateGreen,
}

// ColorForState returns the marker colour of a state. States outside the
// known process templates are gray.
func ColorForState(state string) StateColor {
	if c, ok := stateColors[state]; ok {
		return c
	}
	return StateGray
}

var typeIcons = map[string]string{
	"Bug":                  "bug",
	"Epic":                 "epic",
	"Feature":              "feature",
	"Impediment":           "impediment",
	"Product Backlog Item": "pbi",
	"Product Portfolio":    "portfolio",
	"Task":                 "task",
	"Test":                 "testcase",
	"User Story":           "userstory",
}

// TypeIconName returns the bundled icon asset for a work item type, with the
// "-solid" variant when solid is set. Unknown types use the task icon.
func TypeIconName(workItemType string, solid bool) string {
	name, ok := typeIcons[workItemType]
	if !ok {
		name = "task"
	}
	if solid {
		name += "-solid"
	}
	return name + ".svg"
}

// TypeKey returns the lower-case icon key of a work item type without the
// variant suffix or extension.
func TypeKey(workItemType string) string {
	return strings.TrimSuffix(TypeIconName(workItemType, false), ".svg")
}
