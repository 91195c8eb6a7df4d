// Package tui provides a full-screen bubbletea front end for interactive
// subtitle selection. It drives the same payload/command seam as the plain
// terminal prompter, so the selection semantics are identical.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/legendastv/ltv/internal/model"
	"github.com/legendastv/ltv/internal/selector"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5FAFD7"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95A5A6"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// mode tracks whether keystrokes navigate the list or edit the filter input.
type mode int

const (
	modeBrowse mode = iota
	modeFilter
)

// candidateItem adapts one ranked candidate to the bubbles list.
type candidateItem struct {
	title string
	desc  string
}

func (i candidateItem) Title() string       { return i.title }
func (i candidateItem) Description() string { return i.desc }
func (i candidateItem) FilterValue() string { return i.title }

// Model presents one selection payload and resolves to a single command.
type Model struct {
	payload selector.Payload
	keymap  KeyMap
	list    list.Model
	input   textinput.Model
	mode    mode
	exact   bool
	inputEr string

	// Result of the interaction, read by the presenter after Run.
	command  selector.Command
	resolved bool
	quit     bool

	width  int
	height int
}

// newModel builds the view for one payload.
func newModel(payload selector.Payload) Model {
	items := make([]list.Item, 0, len(payload.Titles)+len(payload.Subtitles))
	switch payload.Phase {
	case selector.PhaseTitle:
		for _, rt := range payload.Titles {
			items = append(items, candidateItem{
				title: rt.Title.String(),
				desc:  fmt.Sprintf("%.2f  %s", rt.Score, rt.Title.Category),
			})
		}
	case selector.PhaseSubtitle:
		for _, rs := range payload.Subtitles {
			sub := rs.Subtitle
			items = append(items, candidateItem{
				title: fmt.Sprintf("%s %s", sub.Marker(), sub.Release),
				desc: fmt.Sprintf("%.2f  %s  %d downloads  by %s",
					rs.Score, sub.Language, sub.Downloads, sub.Username),
			})
		}
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 0, 0)
	l.Title = payload.File.Basename()
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	if payload.Default >= 0 && payload.Default < len(items) {
		l.Select(payload.Default)
	}

	input := textinput.New()
	input.Prompt = "filter> "
	input.Placeholder = "field=value (title, year, season, episode, category)"

	return Model{
		payload: payload,
		keymap:  DefaultKeyMap(),
		list:    l,
		input:   input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeFilter {
			return m.updateFilter(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quit = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Skip):
		return m.resolve(selector.Skip())

	case key.Matches(msg, m.keymap.Confirm):
		if m.payload.State == selector.StateAutoApply {
			return m.resolve(selector.Confirm())
		}
		idx := m.list.Index()
		if idx == m.payload.Default {
			return m.resolve(selector.Confirm())
		}
		return m.resolve(selector.Select(idx))

	case key.Matches(msg, m.keymap.Decline):
		if m.payload.State == selector.StateAutoApply {
			return m.resolve(selector.Decline())
		}

	case key.Matches(msg, m.keymap.Filter):
		if m.payload.State == selector.StatePresenting {
			m.mode = modeFilter
			m.exact = false
			m.inputEr = ""
			m.input.SetValue("")
			return m, m.input.Focus()
		}

	case key.Matches(msg, m.keymap.Exact):
		if m.payload.State == selector.StatePresenting {
			m.mode = modeFilter
			m.exact = true
			m.inputEr = ""
			m.input.SetValue("")
			return m, m.input.Focus()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		cmd, err := parseFilterInput(m.input.Value(), m.exact)
		if err != nil {
			m.inputEr = err.Error()
			return m, nil
		}
		return m.resolve(cmd)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) resolve(cmd selector.Command) (tea.Model, tea.Cmd) {
	m.command = cmd
	m.resolved = true
	return m, tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	if m.payload.State == selector.StateAutoApply {
		b.WriteString(m.viewSuggestion())
		b.WriteString("\n")
		b.WriteString(filterStyle.Render("enter accept · n decline · s skip · q quit"))
		return b.String()
	}

	if m.payload.Suggestion != nil {
		b.WriteString(m.viewSuggestion())
		b.WriteString("\n")
	}
	if filters := formatFilters(m.payload.Query); filters != "" {
		b.WriteString(filterStyle.Render("filters: " + filters))
		b.WriteString("\n")
	}
	b.WriteString(m.list.View())
	b.WriteString("\n")

	if m.mode == modeFilter {
		label := "filter"
		if m.exact {
			label = "exact filter"
		}
		b.WriteString(headerStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(m.input.View())
		if m.inputEr != "" {
			b.WriteString("\n")
			b.WriteString(errStyle.Render(m.inputEr))
		}
	} else {
		b.WriteString(filterStyle.Render("enter confirm · / filter · x exact · s skip · q quit"))
	}
	return b.String()
}

func (m Model) viewSuggestion() string {
	s := m.payload.Suggestion
	if s == nil {
		return ""
	}
	line := fmt.Sprintf("%s (%.2f)", s.Title.String(), s.Score)
	if s.Subtitle != nil {
		line += " / " + s.Subtitle.Release
	}
	if s.Source == model.SourceRemembered {
		line += " " + sourceStyle.Render("[remembered]")
	}
	return headerStyle.Render(line)
}

// parseFilterInput parses "field=value" into a filter command. An empty
// value clears the filter for that field.
func parseFilterInput(spec string, exact bool) (selector.Command, error) {
	field, value, ok := strings.Cut(strings.TrimSpace(spec), "=")
	if !ok {
		return selector.Command{}, fmt.Errorf("expected field=value")
	}
	f, ok := filterField(strings.TrimSpace(field))
	if !ok {
		return selector.Command{}, fmt.Errorf("unknown field %q", field)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return selector.ClearFilter(f), nil
	}
	return selector.SetFilter(f, value, exact), nil
}

func filterField(name string) (model.FilterField, bool) {
	switch model.FilterField(name) {
	case model.FilterCategory, model.FilterTitle, model.FilterYear,
		model.FilterSeason, model.FilterEpisode:
		return model.FilterField(name), true
	}
	return "", false
}

func formatFilters(q model.MatchQuery) string {
	if len(q.Filters) == 0 {
		return ""
	}
	parts := make([]string, 0, len(q.Filters))
	for _, field := range []model.FilterField{
		model.FilterCategory, model.FilterTitle, model.FilterYear,
		model.FilterSeason, model.FilterEpisode,
	} {
		f, ok := q.Get(field)
		if !ok {
			continue
		}
		mark := ""
		if f.Exact {
			mark = "!"
		}
		parts = append(parts, fmt.Sprintf("%s%s=%s", field, mark, f.Value))
	}
	return strings.Join(parts, " ")
}
