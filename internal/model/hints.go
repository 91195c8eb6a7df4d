package model

import (
	"fmt"
	"strings"
)

// NameKey is a stable identity derived from Hints (normalized title tokens
// plus season, when present). Files sharing a NameKey are treated as the
// same show or pack when reusing confirmed choices. Catalog ids are never
// part of the key: they can change between queries.
type NameKey string

// Hints holds the descriptive attributes extracted from a video file name
// or a subtitle release string. Purely derived data with no identity of
// its own; zero values mean "unknown".
type Hints struct {
	Title   string
	Tokens  []string
	Noise   []string
	Year    int
	Season  int
	Episode int
	Pack    bool
}

// Key derives the NameKey for these hints. Two hint sets with the same
// normalized title tokens and season share a key even when episodes differ.
func (h Hints) Key() NameKey {
	key := strings.Join(h.Tokens, " ")
	if key == "" {
		key = h.Title
	}
	if h.Season > 0 {
		key += fmt.Sprintf("/s%02d", h.Season)
	}
	return NameKey(key)
}

// String renders the hints for logging: "show name S02E07 - 2019".
func (h Hints) String() string {
	s := h.Title
	if h.Season > 0 {
		s += fmt.Sprintf(" S%02d", h.Season)
	}
	if h.Episode > 0 {
		s += fmt.Sprintf("E%02d", h.Episode)
	}
	if h.Year > 0 {
		s += fmt.Sprintf(" - %d", h.Year)
	}
	return s
}
