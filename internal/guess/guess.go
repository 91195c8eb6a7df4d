// Package guess extracts structured hints from video file names and
// subtitle release strings. Extraction is a total function: unparsable
// input yields hints with the lightly normalized text as title and all
// optional fields empty.
package guess

import (
	"path/filepath"
	"strconv"
	"strings"

	ptn "github.com/razsteinmetz/go-ptn"

	"github.com/legendastv/ltv/internal/model"
)

// Extract derives hints from a file name, path or release string.
func Extract(text string) model.Hints {
	name := filepath.Base(strings.TrimSpace(text))
	name = strings.TrimSuffix(name, filepath.Ext(name))

	var h model.Hints
	raw := name
	if info, err := ptn.Parse(name); err == nil && info.Title != "" {
		raw = info.Title
		h.Year = info.Year
		h.Season = info.Season
		h.Episode = info.Episode
	}
	h.Title = cleanTitle(raw)

	// Season/episode fallbacks for forms the parser misses ("2x07",
	// bare "Season 2" directories).
	if h.Season == 0 || h.Episode == 0 {
		season, episode := parseEpisodeMarkers(name)
		if h.Season == 0 {
			h.Season = season
		}
		if h.Episode == 0 {
			h.Episode = episode
		}
	}

	h.Tokens = Tokens(h.Title)
	h.Noise = noiseTokens(name, h.Tokens)
	// A season without an episode marker usually means a full-season pack.
	h.Pack = h.Season > 0 && h.Episode == 0

	return h
}

// cleanTitle normalizes a title or raw name, dropping season phrases,
// recognizable release tags and episode markers but keeping everything
// else. Names that are nothing but markers ("2012") stay intact.
func cleanTitle(name string) string {
	stripped := seasonPhraseRe.ReplaceAllString(Normalize(name), " ")

	var kept []string
	for _, tok := range strings.Fields(stripped) {
		if noiseTokenRe.MatchString(tok) || structuralRe.MatchString(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		return Normalize(name)
	}
	return strings.Join(kept, " ")
}

// parseEpisodeMarkers recognizes "SxxEyy", "NxNN" and "Season N" forms.
func parseEpisodeMarkers(name string) (season, episode int) {
	if m := seasonEpisodeRe.FindStringSubmatch(name); m != nil {
		season, _ = strconv.Atoi(m[1])
		episode, _ = strconv.Atoi(m[2])
		return season, episode
	}
	if m := crossEpisodeRe.FindStringSubmatch(name); m != nil {
		season, _ = strconv.Atoi(m[1])
		episode, _ = strconv.Atoi(m[2])
		return season, episode
	}
	if m := seasonOnlyRe.FindStringSubmatch(name); m != nil {
		season, _ = strconv.Atoi(m[1])
	}
	return season, 0
}
