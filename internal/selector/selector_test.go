package selector

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legendastv/ltv/internal/common"
	"github.com/legendastv/ltv/internal/guess"
	"github.com/legendastv/ltv/internal/memory"
	"github.com/legendastv/ltv/internal/model"
)

// fakeCatalog serves canned candidates without touching the network.
type fakeCatalog struct {
	titles    []model.TitleCandidate
	subs      map[int][]model.SubtitleCandidate
	titlesErr error
	subsErr   error
}

func (f *fakeCatalog) SearchTitles(_ context.Context, _ string) ([]model.TitleCandidate, error) {
	return f.titles, f.titlesErr
}

func (f *fakeCatalog) SearchSubtitles(_ context.Context, titleID int, _ string) ([]model.SubtitleCandidate, error) {
	if f.subsErr != nil {
		return nil, f.subsErr
	}
	return f.subs[titleID], nil
}

func testVideo(path string) model.VideoFile {
	return model.VideoFile{Path: path, Hints: guess.Extract(path)}
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		titles: []model.TitleCandidate{
			{ID: 100, Title: "Breaking Bad", Category: model.CategorySeason, Season: 2, Year: 2009},
			{ID: 101, Title: "Breaking Bad", Category: model.CategorySeason, Season: 3, Year: 2010},
			{ID: 102, Title: "Mad Men", Category: model.CategorySeason, Season: 2, Year: 2008},
			{ID: 103, Title: "Breaking Upwards", Category: model.CategoryMovie, Year: 2009},
		},
		subs: map[int][]model.SubtitleCandidate{
			100: {
				{Hash: "e1", Release: "Breaking.Bad.S02E01.720p.HDTV.x264-CTU", Language: "pb", TitleID: 100, Downloads: 500, Date: time.Unix(3000, 0)},
				{Hash: "e7", Release: "Breaking.Bad.S02E07.720p.HDTV.x264-CTU", Language: "pb", TitleID: 100, Downloads: 400, Date: time.Unix(2000, 0)},
				{Hash: "pk", Release: "Breaking.Bad.S02.Complete.720p.HDTV", Language: "pb", TitleID: 100, Pack: true, Downloads: 900, Date: time.Unix(1000, 0)},
			},
		},
	}
}

func TestSelectorConfirmDefaults(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	sel := New(testVideo("Breaking.Bad.S02E01.720p.HDTV.x264-CTU.mkv"), testCatalog(), store, "pb")

	require.NoError(t, sel.Search(ctx))
	require.Equal(t, StatePresenting, sel.State())
	assert.Equal(t, model.NameKey("breaking bad/s02"), sel.Key())

	payload := sel.Render()
	require.Equal(t, PhaseTitle, payload.Phase)
	// The movie is incompatible with an episode-marked file.
	require.Len(t, payload.Titles, 3)
	assert.Equal(t, 100, payload.Titles[0].Title.ID, "season 2 entry ranks first")
	assert.Equal(t, 101, payload.Titles[1].Title.ID)
	require.NotNil(t, payload.Suggestion)
	assert.Equal(t, model.SourceComputed, payload.Suggestion.Source)

	// Confirm the default title, then the default release.
	require.NoError(t, sel.Apply(ctx, Confirm()))
	payload = sel.Render()
	require.Equal(t, PhaseSubtitle, payload.Phase)
	require.Len(t, payload.Subtitles, 3)
	assert.Equal(t, "e1", payload.Subtitles[0].Subtitle.Hash, "exact episode outranks pack and siblings")

	require.NoError(t, sel.Apply(ctx, Confirm()))
	require.Equal(t, StateDone, sel.State())

	choice, ok := sel.Result()
	require.True(t, ok)
	assert.Equal(t, 100, choice.Title.ID)
	require.NotNil(t, choice.Subtitle)
	assert.Equal(t, "e1", choice.Subtitle.Hash)

	remembered, err := store.Lookup(ctx, "breaking bad/s02")
	require.NoError(t, err)
	require.NotNil(t, remembered)
	assert.Equal(t, 100, remembered.Title.ID)
}

func TestSelectorAutoAppliesRememberedChoice(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	catalog := testCatalog()

	first := New(testVideo("Breaking.Bad.S02E01.720p.HDTV.x264-CTU.mkv"), catalog, store, "pb")
	require.NoError(t, first.Search(ctx))
	require.NoError(t, first.Apply(ctx, Confirm()))
	require.NoError(t, first.Apply(ctx, Confirm()))
	require.Equal(t, StateDone, first.State())

	// A sibling episode of the same season short-circuits to auto-apply.
	second := New(testVideo("Breaking.Bad.S02E07.720p.HDTV.x264-CTU.mkv"), catalog, store, "pb")
	require.NoError(t, second.Search(ctx))
	require.Equal(t, StateAutoApply, second.State())

	payload := second.Render()
	require.NotNil(t, payload.Suggestion)
	assert.Equal(t, model.SourceRemembered, payload.Suggestion.Source)
	assert.Equal(t, 100, payload.Suggestion.Title.ID)

	require.NoError(t, second.Apply(ctx, Confirm()))
	require.Equal(t, StateDone, second.State())

	choice, ok := second.Result()
	require.True(t, ok)
	assert.Equal(t, 100, choice.Title.ID)
	require.NotNil(t, choice.Subtitle)
}

func TestSelectorDeclineEvictsRememberedChoice(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	catalog := testCatalog()

	first := New(testVideo("Breaking.Bad.S02E01.720p.HDTV.x264-CTU.mkv"), catalog, store, "pb")
	require.NoError(t, first.Search(ctx))
	require.NoError(t, first.Apply(ctx, Confirm()))
	require.NoError(t, first.Apply(ctx, Confirm()))

	second := New(testVideo("Breaking.Bad.S02E07.720p.HDTV.x264-CTU.mkv"), catalog, store, "pb")
	require.NoError(t, second.Search(ctx))
	require.Equal(t, StateAutoApply, second.State())

	require.NoError(t, second.Apply(ctx, Decline()))
	assert.Equal(t, StatePresenting, second.State())
	assert.Equal(t, PhaseTitle, second.Render().Phase)

	remembered, err := store.Lookup(ctx, "breaking bad/s02")
	require.NoError(t, err)
	assert.Nil(t, remembered, "declining evicts the remembered choice")
}

func TestSelectorExactFilterConstrainsEligibility(t *testing.T) {
	ctx := context.Background()
	sel := New(testVideo("Breaking.Bad.S02E01.720p.HDTV.x264-CTU.mkv"), testCatalog(), memory.NewSessionStore(), "pb")
	require.NoError(t, sel.Search(ctx))

	require.NoError(t, sel.Apply(ctx, SetFilter(model.FilterSeason, "9", true)))
	assert.Empty(t, sel.Render().Titles, "no candidate carries season 9")

	// Confirming an empty eligible set is rejected but recoverable.
	err := sel.Apply(ctx, Confirm())
	require.ErrorIs(t, err, common.ErrNoCandidates)
	require.Equal(t, StatePresenting, sel.State())

	require.NoError(t, sel.Apply(ctx, ClearFilter(model.FilterSeason)))
	assert.Len(t, sel.Render().Titles, 3, "clearing re-derives from the full pool")
}

func TestSelectorNonExactFilterOnlySteersRanking(t *testing.T) {
	ctx := context.Background()
	sel := New(testVideo("Breaking.Bad.S02E01.720p.HDTV.x264-CTU.mkv"), testCatalog(), memory.NewSessionStore(), "pb")
	require.NoError(t, sel.Search(ctx))

	require.NoError(t, sel.Apply(ctx, SetFilter(model.FilterTitle, "mad men", false)))

	payload := sel.Render()
	assert.Len(t, payload.Titles, 3, "non-exact filters never shrink the eligible set")
	assert.Equal(t, 102, payload.Titles[0].Title.ID, "ranking follows the filter value")
}

func TestSelectorFiltersNeverAccumulate(t *testing.T) {
	ctx := context.Background()
	sel := New(testVideo("Breaking.Bad.S02E01.720p.HDTV.x264-CTU.mkv"), testCatalog(), memory.NewSessionStore(), "pb")
	require.NoError(t, sel.Search(ctx))

	require.NoError(t, sel.Apply(ctx, SetFilter(model.FilterSeason, "3", true)))
	require.Len(t, sel.Render().Titles, 1)

	// Replacing the value re-derives from the full pool, not from the
	// previously narrowed set.
	require.NoError(t, sel.Apply(ctx, SetFilter(model.FilterSeason, "2", true)))
	titles := sel.Render().Titles
	require.Len(t, titles, 2)
	assert.Equal(t, 100, titles[0].Title.ID)
}

func TestSelectorSelectSpecificRelease(t *testing.T) {
	ctx := context.Background()
	sel := New(testVideo("Breaking.Bad.S02E01.720p.HDTV.x264-CTU.mkv"), testCatalog(), memory.NewSessionStore(), "pb")
	require.NoError(t, sel.Search(ctx))
	require.NoError(t, sel.Apply(ctx, Confirm()))

	payload := sel.Render()
	packIndex := -1
	for i, r := range payload.Subtitles {
		if r.Subtitle.Hash == "pk" {
			packIndex = i
		}
	}
	require.GreaterOrEqual(t, packIndex, 0)

	require.NoError(t, sel.Apply(ctx, Select(packIndex)))
	choice, ok := sel.Result()
	require.True(t, ok)
	assert.Equal(t, "pk", choice.Subtitle.Hash)
}

func TestSelectorTitleWithoutReleases(t *testing.T) {
	ctx := context.Background()
	catalog := testCatalog()
	catalog.subs = nil

	store := memory.NewSessionStore()
	sel := New(testVideo("Breaking.Bad.S02E01.720p.HDTV.x264-CTU.mkv"), catalog, store, "pb")
	require.NoError(t, sel.Search(ctx))
	require.NoError(t, sel.Apply(ctx, Confirm()))
	require.NoError(t, sel.Apply(ctx, Confirm()))

	choice, ok := sel.Result()
	require.True(t, ok)
	assert.Equal(t, 100, choice.Title.ID)
	assert.Nil(t, choice.Subtitle, "a title with no matching release is still a choice")
	assert.Equal(t, 1, store.Len())
}

func TestSelectorSkip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	sel := New(testVideo("Breaking.Bad.S02E01.720p.HDTV.x264-CTU.mkv"), testCatalog(), store, "pb")
	require.NoError(t, sel.Search(ctx))

	require.NoError(t, sel.Apply(ctx, Skip()))
	assert.Equal(t, StateSkipped, sel.State())
	assert.True(t, sel.State().Terminal())

	_, ok := sel.Result()
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len(), "skips are never recorded")
}

func TestSelectorSearchFailure(t *testing.T) {
	catalog := testCatalog()
	catalog.titlesErr = fmt.Errorf("connection reset")

	sel := New(testVideo("Breaking.Bad.S02E01.mkv"), catalog, memory.NewSessionStore(), "pb")
	err := sel.Search(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrSearchFailure))
}

func TestSelectorRememberedTitleGone(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	require.NoError(t, store.Remember(ctx, model.Choice{
		Key:   "breaking bad/s02",
		Title: model.TitleCandidate{ID: 999, Title: "Vanished", Category: model.CategorySeason, Season: 2},
	}))

	sel := New(testVideo("Breaking.Bad.S02E01.720p.HDTV.x264-CTU.mkv"), testCatalog(), store, "pb")
	require.NoError(t, sel.Search(ctx))
	assert.Equal(t, StatePresenting, sel.State(), "stale memory falls back to presenting")
}
