package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/legendastv/ltv/internal/guess"
	"github.com/legendastv/ltv/internal/model"
	"github.com/legendastv/ltv/internal/selector"
)

// maxListed limits how many candidates one screen shows; the full ranking
// stays selectable by number.
const maxListed = 15

// Prompter implements the interactive terminal front end for subtitle
// selection. It renders each selector payload and parses one command per
// line of input.
type Prompter struct {
	writer io.Writer
	reader *LineReader
}

// NewPrompter creates a prompter with the given reader and writer,
// defaulting to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// Next renders the payload and reads commands until one parses. Invalid
// input re-prompts without re-rendering the candidate list.
func (p *Prompter) Next(ctx context.Context, payload selector.Payload) (selector.Command, error) {
	select {
	case <-ctx.Done():
		return selector.Command{}, ctx.Err()
	default:
	}

	p.render(payload)

	for {
		fmt.Fprint(p.writer, FormatPrompt(p.promptLine(payload)))
		line, err := p.reader.ReadLine(ctx)
		if err == ErrInputCancelled {
			return selector.Command{}, context.Canceled
		}
		if err != nil {
			return selector.Command{}, fmt.Errorf("read input: %w", err)
		}

		cmd, ok := p.parse(payload, line)
		if !ok {
			fmt.Fprintln(p.writer, FormatWarning("Unrecognized input. Try enter, a number, f field=value, f! field=value, c field, or s."))
			continue
		}
		return cmd, nil
	}
}

func (p *Prompter) promptLine(payload selector.Payload) string {
	if payload.State == selector.StateAutoApply {
		return "Accept remembered choice? [enter=yes n=no s=skip]"
	}
	return "Choice"
}

// parse maps one input line onto a selector command.
func (p *Prompter) parse(payload selector.Payload, line string) (selector.Command, bool) {
	line = strings.TrimSpace(line)

	if payload.State == selector.StateAutoApply {
		switch strings.ToLower(line) {
		case "", "y":
			return selector.Confirm(), true
		case "n":
			return selector.Decline(), true
		case "s":
			return selector.Skip(), true
		}
		return selector.Command{}, false
	}

	switch {
	case line == "":
		return selector.Confirm(), true
	case line == "s":
		return selector.Skip(), true
	case strings.HasPrefix(line, "c "):
		field, ok := parseField(strings.TrimSpace(line[2:]))
		if !ok {
			return selector.Command{}, false
		}
		return selector.ClearFilter(field), true
	case strings.HasPrefix(line, "f! "):
		return parseFilter(line[3:], true)
	case strings.HasPrefix(line, "f "):
		return parseFilter(line[2:], false)
	}

	if n, err := strconv.Atoi(line); err == nil {
		// Listings are 1-based for humans.
		return selector.Select(n - 1), true
	}
	return selector.Command{}, false
}

func parseFilter(spec string, exact bool) (selector.Command, bool) {
	name, value, found := strings.Cut(strings.TrimSpace(spec), "=")
	if !found || value == "" {
		return selector.Command{}, false
	}
	field, ok := parseField(name)
	if !ok {
		return selector.Command{}, false
	}
	return selector.SetFilter(field, strings.TrimSpace(value), exact), true
}

func parseField(name string) (model.FilterField, bool) {
	switch model.FilterField(strings.ToLower(strings.TrimSpace(name))) {
	case model.FilterCategory:
		return model.FilterCategory, true
	case model.FilterTitle:
		return model.FilterTitle, true
	case model.FilterYear:
		return model.FilterYear, true
	case model.FilterSeason:
		return model.FilterSeason, true
	case model.FilterEpisode:
		return model.FilterEpisode, true
	}
	return "", false
}

// render prints the candidate listing for the current payload.
func (p *Prompter) render(payload selector.Payload) {
	header := fmt.Sprintf("%s\n%s",
		guess.DisplayTitle(payload.File.Hints.String()),
		SubtleStyle.Render(payload.File.Release()))
	fmt.Fprintln(p.writer, RenderBox("Video", header))

	if filters := formatFilters(payload.Query); filters != "" {
		fmt.Fprintln(p.writer, SubtleStyle.Render("Filters: "+filters))
	}

	switch {
	case payload.State == selector.StateAutoApply && payload.Suggestion != nil:
		s := payload.Suggestion
		fmt.Fprintln(p.writer, FormatSuccess(fmt.Sprintf("Remembered: %s", s.Title.String())))
		if s.Subtitle != nil {
			fmt.Fprintln(p.writer, "  "+SubtleStyle.Render(s.Subtitle.String()))
		}
	case payload.Phase == selector.PhaseTitle:
		p.renderTitles(payload)
	default:
		p.renderSubtitles(payload)
	}
}

func (p *Prompter) renderTitles(payload selector.Payload) {
	if len(payload.Titles) == 0 {
		fmt.Fprintln(p.writer, FormatWarning("No matching titles. Adjust filters (f/f!/c) or skip (s)."))
		return
	}
	fmt.Fprintf(p.writer, "Found %d titles:\n", len(payload.Titles))
	for i, r := range payload.Titles {
		if i == maxListed {
			fmt.Fprintln(p.writer, SubtleStyle.Render(fmt.Sprintf("  … %d more", len(payload.Titles)-maxListed)))
			break
		}
		line := fmt.Sprintf("[%2d] %.2f  %s (%s)", i+1, r.Score, r.Title.String(), r.Title.Category)
		if i == payload.Default {
			line = HighlightStyle.Render(line + "  ◀ default")
		}
		fmt.Fprintln(p.writer, line)
	}
}

func (p *Prompter) renderSubtitles(payload selector.Payload) {
	if len(payload.Subtitles) == 0 {
		fmt.Fprintln(p.writer, FormatWarning("No matching releases. Enter confirms the title without a subtitle; s skips."))
		return
	}
	fmt.Fprintf(p.writer, "Found %d releases:\n", len(payload.Subtitles))
	for i, r := range payload.Subtitles {
		if i == maxListed {
			fmt.Fprintln(p.writer, SubtleStyle.Render(fmt.Sprintf("  … %d more", len(payload.Subtitles)-maxListed)))
			break
		}
		sub := r.Subtitle
		line := fmt.Sprintf("[%2d] %.2f %s %s  %s",
			i+1, r.Score, sub.Marker(), sub.Release,
			SubtleStyle.Render(fmt.Sprintf("%d downloads, rating %d, %s", sub.Downloads, sub.Rating, sub.Language)))
		if i == payload.Default {
			line = HighlightStyle.Render(line)
		}
		fmt.Fprintln(p.writer, line)
	}
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
		if f, ok := q.Get(field); ok {
			mark := ""
			if f.Exact {
				mark = "!"
			}
			parts = append(parts, fmt.Sprintf("%s%s=%s", field, mark, f.Value))
		}
	}
	return strings.Join(parts, "  ")
}
