package model

import (
	"fmt"
	"path/filepath"
)

// VideoFile identifies one local video file together with the hints derived
// from its name. Created at batch-start enumeration, immutable thereafter.
type VideoFile struct {
	Path  string
	Hints Hints
}

// Basename returns the file name without directories.
func (v VideoFile) Basename() string {
	return filepath.Base(v.Path)
}

// Release returns "parentdir/basename", the most release-like rendering of
// the path. Pack directories often carry hints the file name lacks.
func (v VideoFile) Release() string {
	return filepath.Join(filepath.Base(filepath.Dir(v.Path)), filepath.Base(v.Path))
}

// Compatible reports whether this file can match a title of the given
// category. An unknown file category matches anything, and cartoons match
// both movie-like and episode-like files.
func (v VideoFile) Compatible(t TitleCandidate) bool {
	if t.Category == CategoryCartoon {
		return true
	}
	if v.Hints.Season > 0 || v.Hints.Episode > 0 {
		return t.Category == CategorySeason
	}
	// No episode markers: could still be an episode named loosely, so only
	// season titles with a mismatched season are rejected elsewhere.
	return true
}

// String renders the file for logging: hints plus the release path.
func (v VideoFile) String() string {
	return fmt.Sprintf("%s [%s]", v.Hints.String(), v.Release())
}
