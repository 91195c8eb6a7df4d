// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// Category identifies the kind of catalog title.
type Category string

// Category constants, matching the single-letter codes used by the catalog.
const (
	CategoryMovie   Category = "M"
	CategorySeason  Category = "S"
	CategoryCartoon Category = "C"
)

// Valid reports whether the category is one of the known catalog codes.
func (c Category) Valid() bool {
	switch c {
	case CategoryMovie, CategorySeason, CategoryCartoon:
		return true
	}
	return false
}

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case CategoryMovie:
		return "movie"
	case CategorySeason:
		return "season"
	case CategoryCartoon:
		return "cartoon"
	}
	return string(c)
}

// TitleCandidate is a catalog entry representing a movie, TV series season
// or cartoon series. Immutable once fetched.
type TitleCandidate struct {
	Title    string
	Native   string
	Synopsis string
	Category Category
	ID       int
	Year     int
	Season   int
	IMDBID   int
}

// IMDBURL returns the full IMDB URL for the title, or "" when the IMDB id
// is unknown.
func (t TitleCandidate) IMDBURL() string {
	if t.IMDBID == 0 {
		return ""
	}
	return fmt.Sprintf("https://www.imdb.com/title/tt%07d/", t.IMDBID)
}

// String renders the title the way the catalog displays it:
// "Name S02 [Native] - 2013".
func (t TitleCandidate) String() string {
	s := t.Title
	if t.Season > 0 {
		s += fmt.Sprintf(" S%02d", t.Season)
	}
	if t.Native != "" && t.Native != t.Title {
		s += fmt.Sprintf(" [%s]", t.Native)
	}
	if t.Year > 0 {
		s += fmt.Sprintf(" - %d", t.Year)
	}
	return s
}
