package score

import "github.com/legendastv/ltv/internal/model"

// PreferSubtitle is the tie-break ordering applied when two subtitle
// candidates score within Epsilon of each other: featured first, then
// rating, downloads and publication date, all descending. The hash makes
// the ordering total so repeated rankings are stable.
func PreferSubtitle(a, b model.SubtitleCandidate) bool {
	if a.Featured != b.Featured {
		return a.Featured
	}
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	if a.Downloads != b.Downloads {
		return a.Downloads > b.Downloads
	}
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.Hash < b.Hash
}

// PreferTitle is the tie-break ordering for title candidates, which carry
// no popularity signals: alphabetical, then by catalog id.
func PreferTitle(a, b model.TitleCandidate) bool {
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.ID < b.ID
}
