package selector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/legendastv/ltv/internal/common"
	"github.com/legendastv/ltv/internal/guess"
	"github.com/legendastv/ltv/internal/memory"
	"github.com/legendastv/ltv/internal/model"
	"github.com/legendastv/ltv/internal/score"
)

// Catalog is the slice of the catalog client the selector consumes.
type Catalog interface {
	SearchTitles(ctx context.Context, query string) ([]model.TitleCandidate, error)
	SearchSubtitles(ctx context.Context, titleID int, language string) ([]model.SubtitleCandidate, error)
}

// Selector runs the selection state machine for a single video file.
type Selector struct {
	catalog  Catalog
	store    memory.Store
	language string

	video model.VideoFile
	key   model.NameKey
	query model.MatchQuery

	state State
	phase Phase

	allTitles []model.TitleCandidate
	titles    []RankedTitle
	allSubs   []model.SubtitleCandidate
	subs      []RankedSubtitle

	chosenTitle *model.TitleCandidate
	chosenSub   *model.SubtitleCandidate
	remembered  *model.Choice
	choice      *model.Choice
	source      model.SuggestionSource
	def         int
}

// New creates a selector for one file. The store is shared across the
// batch; the selector is its only writer and writes only on confirmation.
func New(video model.VideoFile, catalog Catalog, store memory.Store, language string) *Selector {
	return &Selector{
		video:    video,
		catalog:  catalog,
		store:    store,
		language: language,
		query:    model.NewMatchQuery(video.Hints.Title),
		state:    StateSearching,
		source:   model.SourceComputed,
	}
}

// State returns the current machine state.
func (s *Selector) State() State { return s.state }

// Key returns the NameKey derived for this file.
func (s *Selector) Key() model.NameKey { return s.key }

// Result returns the confirmed choice once the machine reached Done.
func (s *Selector) Result() (model.Choice, bool) {
	if s.choice == nil {
		return model.Choice{}, false
	}
	return *s.choice, true
}

// Search runs Searching and Ranking: it queries the catalog, ranks the
// candidates against the file and consults choice memory. On return the
// machine is in AutoApply, Presenting or (on empty results) Presenting
// with an empty eligible set.
func (s *Selector) Search(ctx context.Context) error {
	s.state = StateSearching
	s.key = s.video.Hints.Key()

	slog.Debug("Searching titles",
		"file", s.video.Basename(),
		"term", s.query.Term,
		"key", s.key)

	titles, err := s.catalog.SearchTitles(ctx, s.query.Term)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrSearchFailure, err)
	}

	s.allTitles = titles
	s.state = StateRanking
	s.rerank()

	if remembered, err := s.store.Lookup(ctx, s.key); err != nil {
		slog.Warn("Choice memory lookup failed", "key", s.key, "error", err)
	} else if remembered != nil {
		if t := s.findRemembered(*remembered); t != nil {
			if err := s.loadSubtitles(ctx, *t); err != nil {
				return err
			}
			s.chosenTitle = t
			s.remembered = remembered
			s.chosenSub = s.resolveRememberedSubtitle(*remembered)
			s.source = model.SourceRemembered
			s.phase = PhaseSubtitle
			s.state = StateAutoApply
			slog.Info("Reusing remembered choice",
				"file", s.video.Basename(),
				"title", t.String(),
				"key", s.key)
			return nil
		}
		slog.Debug("Remembered title not among current candidates", "key", s.key)
	}

	s.state = StatePresenting
	return nil
}

// Apply feeds one command into the machine. The returned error is either a
// search failure raised while loading subtitle candidates or an invalid
// command for the current state.
func (s *Selector) Apply(ctx context.Context, cmd Command) error {
	switch s.state {
	case StateAutoApply:
		return s.applyAutoApply(ctx, cmd)
	case StatePresenting:
		return s.applyPresenting(ctx, cmd)
	default:
		return fmt.Errorf("no command accepted in state %s", s.state)
	}
}

func (s *Selector) applyAutoApply(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case CmdConfirm:
		return s.finalize(ctx)
	case CmdSkip:
		s.state = StateSkipped
		return nil
	default:
		// Any other command declines the remembered choice: evict it and
		// fall back to the computed ranking.
		if err := s.store.Forget(ctx, s.key); err != nil {
			slog.Warn("Failed to evict remembered choice", "key", s.key, "error", err)
		}
		s.remembered = nil
		s.chosenTitle = nil
		s.chosenSub = nil
		s.source = model.SourceComputed
		s.phase = PhaseTitle
		s.def = 0
		s.state = StatePresenting
		return s.applyPresenting(ctx, cmd)
	}
}

func (s *Selector) applyPresenting(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case CmdConfirm:
		return s.choose(ctx, s.def)
	case CmdSelect:
		return s.choose(ctx, cmd.Index)
	case CmdSetFilter:
		s.state = StateFiltering
		s.query.Set(cmd.Field, cmd.Value, cmd.Exact)
		s.rerank()
		s.def = 0
		s.state = StatePresenting
		return nil
	case CmdClearFilter:
		s.state = StateFiltering
		s.query.Clear(cmd.Field)
		s.rerank()
		s.def = 0
		s.state = StatePresenting
		return nil
	case CmdDecline:
		// Nothing remembered at this point; just refresh the ranking.
		s.rerank()
		return nil
	case CmdSkip:
		s.state = StateSkipped
		return nil
	default:
		return fmt.Errorf("unknown command kind %d", cmd.Kind)
	}
}

func (s *Selector) choose(ctx context.Context, index int) error {
	if s.phase == PhaseTitle {
		if len(s.titles) == 0 {
			return fmt.Errorf("%w: adjust filters or skip", common.ErrNoCandidates)
		}
		if index < 0 || index >= len(s.titles) {
			return fmt.Errorf("title index %d out of range", index)
		}
		title := s.titles[index].Title
		if err := s.loadSubtitles(ctx, title); err != nil {
			return err
		}
		s.chosenTitle = &title
		s.phase = PhaseSubtitle
		s.def = 0
		return nil
	}

	if len(s.subs) > 0 {
		if index < 0 || index >= len(s.subs) {
			return fmt.Errorf("subtitle index %d out of range", index)
		}
		sub := s.subs[index].Subtitle
		s.chosenSub = &sub
	} else {
		// Title confirmed with no matching release: a (title, none) choice.
		s.chosenSub = nil
	}
	return s.finalize(ctx)
}

// finalize walks Confirmed -> Recorded -> Done. Memory write failures are
// logged but do not fail the file: the confirmation itself stands.
func (s *Selector) finalize(ctx context.Context) error {
	if s.chosenTitle == nil {
		return fmt.Errorf("cannot confirm without a chosen title")
	}
	s.state = StateConfirmed

	choice := model.Choice{
		Key:         s.key,
		Title:       *s.chosenTitle,
		Subtitle:    s.chosenSub,
		ConfirmedAt: time.Now(),
	}
	if err := s.store.Remember(ctx, choice); err != nil {
		slog.Warn("Failed to record choice", "key", s.key, "error", err)
	}
	s.state = StateRecorded

	s.choice = &choice
	s.state = StateDone

	slog.Info("Choice confirmed",
		"file", s.video.Basename(),
		"title", choice.Title.String(),
		"subtitle", subtitleLabel(choice.Subtitle),
		"source", s.source)
	return nil
}

// Render exposes the current state for presentation.
func (s *Selector) Render() Payload {
	p := Payload{
		File:      s.video,
		State:     s.state,
		Phase:     s.phase,
		Query:     s.query,
		Titles:    s.titles,
		Subtitles: s.subs,
		Default:   s.def,
		Source:    s.source,
	}
	if s.state == StateAutoApply && s.chosenTitle != nil {
		p.Suggestion = &model.Suggestion{
			Title:    *s.chosenTitle,
			Subtitle: s.chosenSub,
			Score:    score.Score(s.video.Hints, s.titleHints(*s.chosenTitle)),
			Source:   model.SourceRemembered,
		}
	} else if s.phase == PhaseTitle && len(s.titles) > 0 {
		def := s.titles[s.def]
		p.Suggestion = &model.Suggestion{
			Title:  def.Title,
			Score:  def.Score,
			Source: model.SourceComputed,
		}
	}
	return p
}

// loadSubtitles fetches and ranks the release list for a title.
func (s *Selector) loadSubtitles(ctx context.Context, title model.TitleCandidate) error {
	subs, err := s.catalog.SearchSubtitles(ctx, title.ID, s.language)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrSearchFailure, err)
	}
	s.allSubs = subs
	s.rankSubtitles()
	return nil
}

// rerank re-derives the eligible set and ranking for the current phase
// from the full candidate pool. Filters never accumulate: each call starts
// from scratch with the current MatchQuery.
func (s *Selector) rerank() {
	if s.phase == PhaseTitle {
		s.rankTitles()
		return
	}
	s.rankSubtitles()
}

func (s *Selector) rankTitles() {
	hints := s.effectiveHints()

	ranked := make([]RankedTitle, 0, len(s.allTitles))
	for _, t := range s.allTitles {
		if !s.video.Compatible(t) {
			continue
		}
		if !s.titleEligible(t) {
			continue
		}
		ranked = append(ranked, RankedTitle{
			Title: t,
			Score: score.Score(hints, s.titleHints(t)),
		})
	}

	rememberedID := 0
	if s.remembered != nil {
		rememberedID = s.remembered.Title.ID
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if diff := a.Score - b.Score; diff > score.Epsilon || diff < -score.Epsilon {
			return a.Score > b.Score
		}
		// File similarity first; memory only breaks exact ties.
		if rememberedID != 0 && (a.Title.ID == rememberedID) != (b.Title.ID == rememberedID) {
			return a.Title.ID == rememberedID
		}
		return score.PreferTitle(a.Title, b.Title)
	})

	s.titles = ranked
}

func (s *Selector) rankSubtitles() {
	hints := s.effectiveHints()

	ranked := make([]RankedSubtitle, 0, len(s.allSubs))
	subHints := make(map[string]model.Hints, len(s.allSubs))
	for _, sub := range s.allSubs {
		sh := guess.Extract(sub.Release)
		sh.Pack = sh.Pack || sub.Pack
		if !s.subtitleEligible(sub, sh) {
			continue
		}
		subHints[sub.Hash] = sh
		ranked = append(ranked, RankedSubtitle{
			Subtitle: sub,
			Score:    score.Score(hints, sh),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if diff := a.Score - b.Score; diff > score.Epsilon || diff < -score.Epsilon {
			return a.Score > b.Score
		}
		// Release-string self-similarity before the popularity tuple.
		na := score.NoiseOverlap(s.video.Hints, subHints[a.Subtitle.Hash])
		nb := score.NoiseOverlap(s.video.Hints, subHints[b.Subtitle.Hash])
		if na != nb {
			return na > nb
		}
		return score.PreferSubtitle(a.Subtitle, b.Subtitle)
	})

	s.subs = ranked
}

// effectiveHints applies every filter value, exact or not, on top of the
// file's hints. Non-exact filters influence only this ranking input.
func (s *Selector) effectiveHints() model.Hints {
	hints := s.video.Hints
	if f, ok := s.query.Get(model.FilterTitle); ok {
		hints.Title = guess.Normalize(f.Value)
		hints.Tokens = guess.Tokens(f.Value)
	}
	if v, ok := s.filterInt(model.FilterYear); ok {
		hints.Year = v
	}
	if v, ok := s.filterInt(model.FilterSeason); ok {
		hints.Season = v
	}
	if v, ok := s.filterInt(model.FilterEpisode); ok {
		hints.Episode = v
		hints.Pack = false
	}
	return hints
}

// titleEligible applies the exact filters to a title candidate.
func (s *Selector) titleEligible(t model.TitleCandidate) bool {
	if f, ok := s.query.Get(model.FilterCategory); ok && f.Exact {
		if !strings.EqualFold(string(t.Category), f.Value) &&
			!strings.EqualFold(t.Category.String(), f.Value) {
			return false
		}
	}
	if f, ok := s.query.Get(model.FilterTitle); ok && f.Exact {
		if !tokensContain(guess.Tokens(t.Title), guess.Tokens(f.Value)) &&
			!tokensContain(guess.Tokens(t.Native), guess.Tokens(f.Value)) {
			return false
		}
	}
	if v, ok := s.exactFilterInt(model.FilterYear); ok && t.Year != v {
		return false
	}
	if v, ok := s.exactFilterInt(model.FilterSeason); ok && t.Season != v {
		return false
	}
	return true
}

// subtitleEligible applies the exact filters to a release candidate.
func (s *Selector) subtitleEligible(sub model.SubtitleCandidate, sh model.Hints) bool {
	if f, ok := s.query.Get(model.FilterTitle); ok && f.Exact {
		if !tokensContain(sh.Tokens, guess.Tokens(f.Value)) {
			return false
		}
	}
	if v, ok := s.exactFilterInt(model.FilterYear); ok && sh.Year != 0 && sh.Year != v {
		return false
	}
	if v, ok := s.exactFilterInt(model.FilterSeason); ok && sh.Season != 0 && sh.Season != v {
		return false
	}
	if v, ok := s.exactFilterInt(model.FilterEpisode); ok {
		if !sh.Pack && sh.Episode != v {
			return false
		}
	}
	return true
}

func (s *Selector) filterInt(field model.FilterField) (int, bool) {
	f, ok := s.query.Get(field)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(f.Value))
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *Selector) exactFilterInt(field model.FilterField) (int, bool) {
	f, ok := s.query.Get(field)
	if !ok || !f.Exact {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(f.Value))
	if err != nil {
		return 0, false
	}
	return v, true
}

// titleHints builds the comparable hint set for a catalog title. When the
// native title matches the file better than the original one, it wins.
func (s *Selector) titleHints(t model.TitleCandidate) model.Hints {
	hints := model.Hints{
		Title:  guess.Normalize(t.Title),
		Tokens: guess.Tokens(t.Title),
		Year:   t.Year,
		Season: t.Season,
	}
	if t.Native != "" && t.Native != t.Title {
		native := hints
		native.Title = guess.Normalize(t.Native)
		native.Tokens = guess.Tokens(t.Native)
		if score.Score(s.video.Hints, native) > score.Score(s.video.Hints, hints) {
			return native
		}
	}
	return hints
}

// findRemembered locates a remembered title among the current candidates,
// by catalog id when available, falling back to an exact identity match.
func (s *Selector) findRemembered(remembered model.Choice) *model.TitleCandidate {
	for i := range s.titles {
		t := s.titles[i].Title
		if remembered.Title.ID != 0 && t.ID == remembered.Title.ID {
			return &t
		}
		if strings.EqualFold(t.Title, remembered.Title.Title) &&
			t.Season == remembered.Title.Season &&
			t.Year == remembered.Title.Year {
			return &t
		}
	}
	return nil
}

// resolveRememberedSubtitle reuses the remembered release only when it is
// still available; otherwise the freshly computed ranking supplies the top
// candidate.
func (s *Selector) resolveRememberedSubtitle(remembered model.Choice) *model.SubtitleCandidate {
	if remembered.Subtitle != nil {
		for _, r := range s.subs {
			if r.Subtitle.Hash == remembered.Subtitle.Hash {
				sub := r.Subtitle
				return &sub
			}
		}
		slog.Debug("Remembered subtitle no longer available, recomputing",
			"hash", remembered.Subtitle.Hash)
	}
	if len(s.subs) > 0 {
		sub := s.subs[0].Subtitle
		return &sub
	}
	return nil
}

func tokensContain(haystack, needles []string) bool {
	if len(needles) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(haystack))
	for _, t := range haystack {
		set[t] = struct{}{}
	}
	for _, n := range needles {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}

func subtitleLabel(sub *model.SubtitleCandidate) string {
	if sub == nil {
		return "(none)"
	}
	return sub.Release
}
