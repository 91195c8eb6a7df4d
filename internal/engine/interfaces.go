package engine

import (
	"context"

	"github.com/legendastv/ltv/internal/archive"
	"github.com/legendastv/ltv/internal/selector"
)

// Catalog is the full catalog-client contract the batch driver needs: the
// selector's search slice plus archive download.
type Catalog interface {
	selector.Catalog
	Download(ctx context.Context, hash string) ([]byte, error)
}

// Extractor unpacks a downloaded subtitle archive, keeping only files with
// the given extensions.
type Extractor interface {
	Extract(data []byte, extensions ...string) ([]archive.File, error)
}

// Presenter is the human in the loop: given a rendering payload it returns
// the next command. Implemented by the terminal prompter and the TUI.
type Presenter interface {
	Next(ctx context.Context, payload selector.Payload) (selector.Command, error)
}

// Progress receives per-file completion notifications during a batch run.
type Progress interface {
	Step(outcome Outcome)
}

// nopProgress is used when no progress reporter is configured.
type nopProgress struct{}

func (nopProgress) Step(Outcome) {}
