// Package selector implements the per-file interactive selection state
// machine: search, rank, present, confirm or override, remember, emit.
// It is front-end agnostic: each state exposes a rendering payload and
// accepts one discrete command, so a terminal prompt, a full-screen TUI or
// an API handler can all drive it.
package selector

import "github.com/legendastv/ltv/internal/model"

// State identifies where the machine is for the current file.
type State int

// Machine states. Confirmed, Recorded and Done are passed through in one
// Apply call; Done and Skipped are terminal.
const (
	StateSearching State = iota
	StateRanking
	StateAutoApply
	StatePresenting
	StateFiltering
	StateConfirmed
	StateRecorded
	StateDone
	StateSkipped
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateRanking:
		return "ranking"
	case StateAutoApply:
		return "auto-apply"
	case StatePresenting:
		return "presenting"
	case StateFiltering:
		return "filtering"
	case StateConfirmed:
		return "confirmed"
	case StateRecorded:
		return "recorded"
	case StateDone:
		return "done"
	case StateSkipped:
		return "skipped"
	}
	return "unknown"
}

// Terminal reports whether no further input is expected.
func (s State) Terminal() bool {
	return s == StateDone || s == StateSkipped
}

// Phase distinguishes the two selection rounds per file.
type Phase int

// Selection phases: first a title, then one of its releases.
const (
	PhaseTitle Phase = iota
	PhaseSubtitle
)

// RankedTitle pairs a title candidate with its similarity to the file.
type RankedTitle struct {
	Title model.TitleCandidate
	Score float64
}

// RankedSubtitle pairs a subtitle candidate with its similarity to the file.
type RankedSubtitle struct {
	Subtitle model.SubtitleCandidate
	Score    float64
}

// Payload is the rendering seam: everything a front end needs to present
// the current state and collect the next command.
type Payload struct {
	Query      model.MatchQuery
	Suggestion *model.Suggestion
	Titles     []RankedTitle
	Subtitles  []RankedSubtitle
	File       model.VideoFile
	Source     model.SuggestionSource
	State      State
	Phase      Phase
	Default    int
}

// CommandKind enumerates the accepted inputs.
type CommandKind int

// Accepted commands per state: Confirm/Select/SetFilter/ClearFilter/Skip in
// Presenting; Confirm/Select/Skip in AutoApply (Select declines the
// remembered choice).
const (
	CmdConfirm CommandKind = iota
	CmdSelect
	CmdSetFilter
	CmdClearFilter
	CmdDecline
	CmdSkip
)

// Command is one discrete input from the front end.
type Command struct {
	Value string
	Field model.FilterField
	Kind  CommandKind
	Index int
	Exact bool
}

// Confirm accepts the current default.
func Confirm() Command { return Command{Kind: CmdConfirm} }

// Select picks the candidate at index i in the rendered ranking.
func Select(i int) Command { return Command{Kind: CmdSelect, Index: i} }

// SetFilter adjusts the MatchQuery. Exact filters constrain eligibility;
// non-exact filters only steer the ranking.
func SetFilter(field model.FilterField, value string, exact bool) Command {
	return Command{Kind: CmdSetFilter, Field: field, Value: value, Exact: exact}
}

// ClearFilter removes a filter.
func ClearFilter(field model.FilterField) Command {
	return Command{Kind: CmdClearFilter, Field: field}
}

// Decline rejects a remembered suggestion, evicting it from choice memory
// and falling back to the computed ranking.
func Decline() Command { return Command{Kind: CmdDecline} }

// Skip declines all candidates for this file.
func Skip() Command { return Command{Kind: CmdSkip} }
