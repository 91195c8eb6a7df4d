package catalog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/legendastv/ltv/internal/model"
)

// rawSuggestion is one entry of the title-suggestion JSON response.
type rawSuggestion struct {
	Source rawTitle `json:"_source"`
}

// rawTitle carries the catalog's field names. Numeric fields arrive as
// strings, numbers or null depending on the record's age.
type rawTitle struct {
	ID       flexInt `json:"id_filme"`
	Category string  `json:"tipo"`
	Title    string  `json:"dsc_nome"`
	Native   string  `json:"dsc_nome_br"`
	Year     flexInt `json:"dsc_data_lancamento"`
	Season   flexInt `json:"temporada"`
	IMDBID   flexInt `json:"id_imdb"`
	Synopsis string  `json:"dsc_sinopse"`
}

// flexInt decodes "2013", 2013 and null alike, defaulting to zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(v)
	return nil
}

// parseTitles decodes a suggestion response into title candidates. Records
// with an unknown category are dropped, not errors: the catalog carries a
// few entries of retired types.
func parseTitles(data []byte) ([]model.TitleCandidate, error) {
	var raw []rawSuggestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode title suggestions: %w", err)
	}

	titles := make([]model.TitleCandidate, 0, len(raw))
	for _, r := range raw {
		category := model.Category(r.Source.Category)
		if !category.Valid() {
			continue
		}
		titles = append(titles, model.TitleCandidate{
			ID:       int(r.Source.ID),
			Title:    r.Source.Title,
			Native:   r.Source.Native,
			Category: category,
			Year:     int(r.Source.Year),
			Season:   int(r.Source.Season),
			IMDBID:   int(r.Source.IMDBID),
			Synopsis: r.Source.Synopsis,
		})
	}
	return titles, nil
}

// subtitleRe matches one release block of a subtitle listing page,
// preserving the field layout the site has used for years.
var subtitleRe = regexp.MustCompile(
	`(?s)<div class="(?P<subtype>[^" ]*)">.+?/download/(?P<hash>[a-f0-9]+)/` +
		`(?P<title>[^/]*?)/[^>]*>(?P<release>[^<]*)<.*?(?P<downloads>\d*) ` +
		`downloads, nota (?P<rating>[^,]*),[^>]*>(?P<username>[^<]*)</a> em ` +
		`(?P<date>[^<]*)<.*?/idioma/(?P<langicon>[^'"]+)[^>]+></div>`)

// nextPageRe finds the "load more" link of a paginated listing.
var nextPageRe = regexp.MustCompile(`<a href="([^"]*)" class="load_more">`)

const listingDateLayout = "02/01/2006 - 15:04"

// parseSubtitles scrapes one listing page into subtitle candidates and the
// relative URL of the next page ("" on the last page).
func parseSubtitles(html string, titleID int, downloadURL func(hash string) string) ([]model.SubtitleCandidate, string) {
	var (
		subtypeIdx   = subtitleRe.SubexpIndex("subtype")
		hashIdx      = subtitleRe.SubexpIndex("hash")
		releaseIdx   = subtitleRe.SubexpIndex("release")
		downloadsIdx = subtitleRe.SubexpIndex("downloads")
		ratingIdx    = subtitleRe.SubexpIndex("rating")
		usernameIdx  = subtitleRe.SubexpIndex("username")
		dateIdx      = subtitleRe.SubexpIndex("date")
		langiconIdx  = subtitleRe.SubexpIndex("langicon")
	)

	var subs []model.SubtitleCandidate
	for _, m := range subtitleRe.FindAllStringSubmatch(html, -1) {
		subtype := m[subtypeIdx]
		date, _ := time.Parse(listingDateLayout, strings.TrimSpace(m[dateIdx]))
		subs = append(subs, model.SubtitleCandidate{
			Hash:      m[hashIdx],
			TitleID:   titleID,
			Release:   m[releaseIdx],
			Downloads: atoi(m[downloadsIdx]),
			Rating:    atoi(m[ratingIdx]),
			Username:  m[usernameIdx],
			Date:      date,
			Language:  languageByIcon(m[langiconIdx]),
			Pack:      strings.HasPrefix(subtype, "p"),
			Featured:  strings.HasPrefix(subtype, "d"),
			URL:       downloadURL(m[hashIdx]),
		})
	}

	next := ""
	if m := nextPageRe.FindStringSubmatch(html); m != nil {
		next = m[1]
	}
	return subs, next
}

func atoi(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
