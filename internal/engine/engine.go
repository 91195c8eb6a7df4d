// Package engine implements the batch driver: it walks a sequence of video
// files, runs the interactive selector for each, and sequences downloads
// and extraction through the external collaborators. Failures are
// file-scoped; one bad file never aborts the batch or corrupts choices
// already recorded for other files.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/legendastv/ltv/internal/archive"
	"github.com/legendastv/ltv/internal/common"
	"github.com/legendastv/ltv/internal/guess"
	"github.com/legendastv/ltv/internal/memory"
	"github.com/legendastv/ltv/internal/model"
	"github.com/legendastv/ltv/internal/score"
	"github.com/legendastv/ltv/internal/selector"
)

// Status classifies a per-file outcome.
type Status string

// Outcome statuses.
const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Outcome is the result of processing one file.
type Outcome struct {
	File   model.VideoFile
	Path   string
	Reason string
	Status Status
}

// Config holds configuration options for the batch engine.
type Config struct {
	Language string
	// AutoConfirm accepts remembered suggestions without re-prompting.
	// Disabled only for front ends that want to surface them first.
	AutoConfirm bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Language: "pb", AutoConfirm: true}
}

// Engine orchestrates batch subtitle selection and download.
type Engine struct {
	catalog   Catalog
	store     memory.Store
	presenter Presenter
	extractor Extractor
	progress  Progress
	config    Config
}

// New creates a batch engine with the given collaborators.
func New(catalog Catalog, store memory.Store, presenter Presenter, extractor Extractor, config Config) *Engine {
	return &Engine{
		catalog:   catalog,
		store:     store,
		presenter: presenter,
		extractor: extractor,
		progress:  nopProgress{},
		config:    config,
	}
}

// SetProgress installs a per-file progress reporter.
func (e *Engine) SetProgress(p Progress) {
	if p == nil {
		p = nopProgress{}
	}
	e.progress = p
}

// Run processes files in input order and returns one outcome per file
// reached. Cancellation stops before the next file; choices already
// recorded stay valid.
func (e *Engine) Run(ctx context.Context, files []model.VideoFile) []Outcome {
	slog.Info("Starting batch", "files", len(files), "language", e.config.Language)
	start := time.Now()

	outcomes := make([]Outcome, 0, len(files))
	for _, file := range files {
		select {
		case <-ctx.Done():
			slog.Info("Batch canceled",
				"processed", len(outcomes),
				"remaining", len(files)-len(outcomes))
			return outcomes
		default:
		}

		outcome := e.processFile(ctx, file)
		outcomes = append(outcomes, outcome)
		e.progress.Step(outcome)

		slog.Info("File processed",
			"file", file.Basename(),
			"status", outcome.Status,
			"reason", outcome.Reason)
	}

	slog.Info("Batch complete",
		"files", len(outcomes),
		"duration", time.Since(start).Round(time.Millisecond))
	return outcomes
}

// processFile drives the selector to a terminal state and then performs
// the download/extraction for a confirmed choice.
func (e *Engine) processFile(ctx context.Context, file model.VideoFile) Outcome {
	sel := selector.New(file, e.catalog, e.store, e.config.Language)

	if err := sel.Search(ctx); err != nil {
		return failed(file, "search", err)
	}

	for !sel.State().Terminal() {
		var cmd selector.Command
		if sel.State() == selector.StateAutoApply && e.config.AutoConfirm {
			cmd = selector.Confirm()
		} else {
			var err error
			cmd, err = e.presenter.Next(ctx, sel.Render())
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return Outcome{File: file, Status: StatusSkipped, Reason: "canceled"}
				}
				return failed(file, "prompt", err)
			}
		}
		if err := sel.Apply(ctx, cmd); err != nil {
			if errors.Is(err, common.ErrNoCandidates) {
				// Confirm on an empty eligible set is not fatal: let the
				// user adjust filters or skip.
				continue
			}
			return failed(file, "search", err)
		}
	}

	if sel.State() == selector.StateSkipped {
		return Outcome{File: file, Status: StatusSkipped, Reason: "declined"}
	}

	choice, ok := sel.Result()
	if !ok {
		return failed(file, "select", fmt.Errorf("selector finished without a choice"))
	}
	if choice.Subtitle == nil {
		return Outcome{File: file, Status: StatusSkipped, Reason: "no subtitle release"}
	}

	path, err := e.fetchSubtitle(ctx, file, *choice.Subtitle)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrExtraction), errors.Is(err, common.ErrUnsupportedFormat):
			return failed(file, "extraction", err)
		default:
			return failed(file, "download", err)
		}
	}

	return Outcome{File: file, Status: StatusDownloaded, Path: path}
}

// fetchSubtitle downloads the chosen release archive, extracts its subtitle
// files and writes the best match next to the video.
func (e *Engine) fetchSubtitle(ctx context.Context, file model.VideoFile, sub model.SubtitleCandidate) (string, error) {
	data, err := e.catalog.Download(ctx, sub.Hash)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", sub.Hash, err)
	}

	entries, err := e.extractor.Extract(data, "srt", "ssa", "ass")
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: archive contains no subtitle files", common.ErrExtraction)
	}

	best := pickSubtitleFile(file, entries)

	target := subtitlePath(file.Path, filepath.Ext(best.Name))
	if err := os.WriteFile(target, best.Data, 0o644); err != nil {
		return "", fmt.Errorf("write subtitle: %w", err)
	}
	return target, nil
}

// pickSubtitleFile chooses the archive entry whose name best matches the
// video. Packs bundle one file per episode, so the per-entry hints decide.
func pickSubtitleFile(file model.VideoFile, entries []archive.File) archive.File {
	best := entries[0]
	bestScore := -1.0
	for _, entry := range entries {
		s := score.Score(file.Hints, guess.Extract(entry.Name))
		if s > bestScore {
			best = entry
			bestScore = s
		}
	}
	return best
}

// subtitlePath mirrors the video path with the subtitle extension, so
// players pick the file up automatically.
func subtitlePath(videoPath, ext string) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	if ext == "" {
		ext = ".srt"
	}
	return base + ext
}

func failed(file model.VideoFile, stage string, err error) Outcome {
	return Outcome{
		File:   file,
		Status: StatusFailed,
		Reason: fmt.Sprintf("%s: %v", stage, err),
	}
}
