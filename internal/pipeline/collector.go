package pipeline

import (
	"context"
	"time"

	"github.com/merchwatch/merchwatch/internal/fetcher"
	"github.com/merchwatch/merchwatch/internal/logger"
	"github.com/merchwatch/merchwatch/internal/sources"
)

// Runner executes one collection run: every configured source is fetched and
// persisted strictly in sequence. Sequential fetches with fixed delays are
// the only rate limiting this job applies to the external sites.
type Runner struct {
	sources     []sources.Source
	fetcher     fetcher.Interface
	gateway     *Gateway
	log         logger.Interface
	sourceDelay time.Duration
}

// RunResult summarizes a collection run.
type RunResult struct {
	// InsertedBySource maps source name to new record count
	InsertedBySource map[string]int
	// TotalInserted is the run-wide new record count
	TotalInserted int
	// RestocksDetected counts restock events recorded during the run
	RestocksDetected int
}

// NewRunner creates a collection runner.
func NewRunner(
	srcs []sources.Source,
	f fetcher.Interface,
	gateway *Gateway,
	sourceDelay time.Duration,
	log logger.Interface,
) *Runner {
	return &Runner{
		sources:     srcs,
		fetcher:     f,
		gateway:     gateway,
		log:         log.WithComponent("collector"),
		sourceDelay: sourceDelay,
	}
}

// Run collects all sources. A source failing to fetch or parse yields
// nothing and is logged; it never aborts collection of the remaining
// sources. Run returns an error only when the context is cancelled.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{InsertedBySource: make(map[string]int, len(r.sources))}

	for i, source := range r.sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		log := r.log.WithSource(source.Name())
		started := time.Now()

		candidates, err := source.Collect(ctx, r.fetcher)
		if err != nil {
			log.Error("Source collection failed", "error", err)
			continue
		}

		persisted := r.gateway.Persist(ctx, candidates)
		result.InsertedBySource[source.Name()] = persisted.Inserted
		result.TotalInserted += persisted.Inserted
		result.RestocksDetected += persisted.Restocks

		log.Info("Source collected",
			"candidates", len(candidates),
			"inserted", persisted.Inserted,
			"restocks", persisted.Restocks,
			"duration", time.Since(started),
		)

		if i < len(r.sources)-1 && r.sourceDelay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(r.sourceDelay):
			}
		}
	}

	return result, nil
}
