package model

import "time"

// SuggestionSource indicates how a suggestion was produced.
type SuggestionSource string

// Suggestion source constants.
const (
	SourceComputed   SuggestionSource = "computed"
	SourceRemembered SuggestionSource = "remembered"
)

// Choice is a confirmed (title, subtitle-or-none) pair recorded against a
// NameKey. Later confirmations for the same key overwrite earlier ones.
type Choice struct {
	ConfirmedAt time.Time
	Subtitle    *SubtitleCandidate
	Key         NameKey
	Title       TitleCandidate
}

// Suggestion is the engine's proposed pair for a file, with its similarity
// score and provenance. Transient, recomputed per file.
type Suggestion struct {
	Subtitle *SubtitleCandidate
	Source   SuggestionSource
	Title    TitleCandidate
	Score    float64
}
