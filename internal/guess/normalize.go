package guess

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Pre-compiled regexes, shared by Normalize and the noise-token pass.
var (
	separatorRe = regexp.MustCompile(`[._+]+`)
	bracketRe   = regexp.MustCompile(`[\[\](){}]`)
	spaceRe     = regexp.MustCompile(`\s+`)

	seasonEpisodeRe = regexp.MustCompile(`(?i)\bs(\d{1,2})\s*e(\d{1,3})\b`)
	crossEpisodeRe  = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`)
	seasonOnlyRe    = regexp.MustCompile(`(?i)\bs(?:eason[ ._]*)?(\d{1,2})\b`)
	seasonPhraseRe  = regexp.MustCompile(`(?i)\b(?:season|temporada) ?\d{1,2}\b`)

	// Release tag vocabulary: resolutions, HDR variants, codecs, audio,
	// sources and streaming platforms.
	noiseTokenRe = regexp.MustCompile(`(?i)^(?:` +
		`\d{3,4}[pi]|4k|uhd|hdr10\+?|hdr|dovi|dv|hlg|sdr|` +
		`x26[45]|h26[45]|hevc|avc|xvid|divx|vp9|av1|` +
		`aac2?|ac3|eac3|ddp?|dd\+|dts|dtshd|truehd|atmos|flac|opus|mp3|` +
		`web-?dl|web-?rip|webdl|webrip|web|dl|rip|blu-?ray|bluray|bdrip|brrip|remux|` +
		`hdtv|pdtv|sdtv|dvd-?rip|dvdscr|dvd|cam|hdcam|telesync|telecine|` +
		`proper|repack|internal|extended|unrated|limited|complete|` +
		`multi|dual|dubbed|subbed|legendado|nacional|` +
		`amzn|nf|dsnp|hmax|hulu|atvp|pcok|pmtp` +
		`)$`)

	// Structural markers that are neither title nor noise: episode
	// numbering, years, channel layouts.
	structuralRe = regexp.MustCompile(`(?i)^(?:s\d{1,2}(?:e\d{1,3})?|e\d{1,3}|\d{1,2}x\d{2,3}|(?:19|20)\d{2}|\d\.\d)$`)

	displayCaser = cases.Title(language.English)
)

// Normalize case-folds text and collapses separators so that repeated
// normalization is a fixed point: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = separatorRe.ReplaceAllString(s, " ")
	s = bracketRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens splits a normalized string into its deduplicated token list,
// preserving first-seen order.
func Tokens(s string) []string {
	fields := strings.Fields(Normalize(s))
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// noiseTokens collects the release tags stripped from a raw name. They are
// not discarded: the scorer consults them when textual matches tie.
func noiseTokens(raw string, titleTokens []string) []string {
	title := make(map[string]struct{}, len(titleTokens))
	for _, t := range titleTokens {
		title[t] = struct{}{}
	}

	var noise []string
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(Normalize(raw)) {
		if _, ok := title[tok]; ok {
			continue
		}
		if structuralRe.MatchString(tok) {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		noise = append(noise, tok)
	}
	return noise
}

// DisplayTitle renders a normalized title for presentation.
func DisplayTitle(s string) string {
	return displayCaser.String(s)
}
