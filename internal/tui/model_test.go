package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legendastv/ltv/internal/model"
	"github.com/legendastv/ltv/internal/selector"
)

func titlePayload() selector.Payload {
	return selector.Payload{
		File:  model.VideoFile{Path: "Breaking.Bad.S02E01.720p.HDTV.mkv"},
		State: selector.StatePresenting,
		Phase: selector.PhaseTitle,
		Query: model.NewMatchQuery("breaking bad"),
		Titles: []selector.RankedTitle{
			{Title: model.TitleCandidate{ID: 100, Title: "Breaking Bad", Category: model.CategorySeason, Season: 2}, Score: 0.92},
			{Title: model.TitleCandidate{ID: 101, Title: "Breaking Bad", Category: model.CategorySeason, Season: 3}, Score: 0.70},
		},
	}
}

func TestParseFilterInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		exact   bool
		want    selector.Command
		wantErr bool
	}{
		{
			name:  "loose filter",
			input: "title=mad men",
			want:  selector.SetFilter(model.FilterTitle, "mad men", false),
		},
		{
			name:  "exact filter",
			input: "season=2",
			exact: true,
			want:  selector.SetFilter(model.FilterSeason, "2", true),
		},
		{
			name:  "empty value clears",
			input: "season=",
			want:  selector.ClearFilter(model.FilterSeason),
		},
		{
			name:    "missing equals",
			input:   "season",
			wantErr: true,
		},
		{
			name:    "unknown field",
			input:   "codec=x264",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := parseFilterInput(tt.input, tt.exact)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestModelResolvesCommands(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want selector.Command
	}{
		{name: "enter confirms default", key: tea.KeyMsg{Type: tea.KeyEnter}, want: selector.Confirm()},
		{name: "s skips", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, want: selector.Skip()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(titlePayload())
			updated, _ := m.Update(tt.key)

			got, ok := updated.(Model)
			require.True(t, ok)
			assert.True(t, got.resolved)
			assert.Equal(t, tt.want, got.command)
		})
	}
}

func TestModelSelectsNonDefault(t *testing.T) {
	m := newModel(titlePayload())

	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = sized.(Model)

	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	next, _ := m.Update(down)
	m = next.(Model)

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	next, _ = m.Update(enter)
	m = next.(Model)

	require.True(t, m.resolved)
	assert.Equal(t, selector.Select(1), m.command)
}

func TestModelQuit(t *testing.T) {
	m := newModel(titlePayload())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	got := next.(Model)
	assert.True(t, got.quit)
	assert.False(t, got.resolved)
}

func TestModelFilterFlow(t *testing.T) {
	m := newModel(titlePayload())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(Model)
	require.Equal(t, modeFilter, m.mode)
	require.True(t, m.exact)

	for _, r := range "season=2" {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	require.True(t, m.resolved)
	assert.Equal(t, selector.SetFilter(model.FilterSeason, "2", true), m.command)
}

func TestModelAutoApplyDecline(t *testing.T) {
	p := titlePayload()
	p.State = selector.StateAutoApply
	p.Suggestion = &model.Suggestion{Title: p.Titles[0].Title, Score: 0.92, Source: model.SourceRemembered}

	m := newModel(p)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	got := next.(Model)

	require.True(t, got.resolved)
	assert.Equal(t, selector.Decline(), got.command)
}
