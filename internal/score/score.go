// Package score compares hint sets and ranks subtitle candidates.
package score

import "github.com/legendastv/ltv/internal/model"

// Component weights. Title similarity dominates: the three bonus weights
// together (0.30) cannot offset a token mismatch against the 0.70 title
// component.
const (
	titleWeight   = 0.70
	seasonWeight  = 0.12
	episodeWeight = 0.10
	yearWeight    = 0.08
)

// Epsilon is the score distance under which two candidates are considered
// tied and tie-break ordering applies.
const Epsilon = 1e-9

// Score returns a similarity value in [0,1] between two hint sets.
//
// The value is a weighted mean over the components present in either hint
// set: token overlap (Dice coefficient) always contributes; season, episode
// and year contribute only when at least one side carries them, scoring 1
// on agreement and 0 otherwise. Identical hints therefore score exactly 1.0
// and disjoint token sets with no field agreement score 0.0.
func Score(a, b model.Hints) float64 {
	value := titleWeight * diceCoefficient(a.Tokens, b.Tokens)
	total := titleWeight

	if a.Season > 0 || b.Season > 0 {
		total += seasonWeight
		if a.Season == b.Season {
			value += seasonWeight
		}
	}
	if a.Episode > 0 || b.Episode > 0 {
		total += episodeWeight
		if a.Episode == b.Episode {
			value += episodeWeight
		} else if b.Pack && a.Season > 0 && a.Season == b.Season {
			// A season pack covers every episode of its season.
			value += episodeWeight
		}
	}
	if a.Year > 0 || b.Year > 0 {
		total += yearWeight
		if a.Year == b.Year {
			value += yearWeight
		}
	}

	return value / total
}

// NoiseOverlap counts shared noise tokens (release tags, group names).
// Used only as a tie-break signal when textual matches are within Epsilon.
func NoiseOverlap(a, b model.Hints) int {
	if len(a.Noise) == 0 || len(b.Noise) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a.Noise))
	for _, t := range a.Noise {
		set[t] = struct{}{}
	}
	n := 0
	for _, t := range b.Noise {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

// diceCoefficient is 2|A∩B| / (|A|+|B|) over token sets: 1.0 for identical
// sets, 0.0 for disjoint ones. Both sets empty counts as no overlap.
func diceCoefficient(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	common := 0
	for _, t := range b {
		if _, ok := set[t]; ok {
			common++
		}
	}
	return 2 * float64(common) / float64(len(a)+len(b))
}
