// Package sources implements the source parsers that turn fetched documents
// into normalized candidate records.
package sources

import (
	"context"

	"github.com/merchwatch/merchwatch/internal/domain"
	"github.com/merchwatch/merchwatch/internal/fetcher"
)

// Source is one external collection target. Collect fetches the target's
// document(s) and parses them into candidate records. A fetch or parse
// failure is returned to the caller, which logs it and moves on to the next
// source; it never aborts the run.
type Source interface {
	// Name is the stable source label used for logging and run summaries.
	Name() string
	// Collect fetches and parses the source.
	Collect(ctx context.Context, f fetcher.Interface) ([]domain.Candidate, error)
}
