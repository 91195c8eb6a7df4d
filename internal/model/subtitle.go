package model

import (
	"fmt"
	"time"
)

// SubtitleCandidate is a subtitle release offered under a catalog title.
// Immutable once fetched.
type SubtitleCandidate struct {
	Date      time.Time
	Hash      string
	Release   string
	Language  string
	Username  string
	URL       string
	TitleID   int
	Rating    int
	Downloads int
	Pack      bool
	Featured  bool
}

// Marker returns the single-character flag the catalog uses in listings:
// 'P' for episode packs, '*' for featured releases.
func (s SubtitleCandidate) Marker() string {
	switch {
	case s.Pack:
		return "P"
	case s.Featured:
		return "*"
	}
	return " "
}

// String renders the release with its marker, e.g. "* Show.S02E07.WEB-GRP".
func (s SubtitleCandidate) String() string {
	return fmt.Sprintf("%s %s", s.Marker(), s.Release)
}
