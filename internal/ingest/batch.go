package ingest

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/petscan/petscan/internal/model"
)

// BatchRunner runs several search rounds concurrently against one shared
// store. Each round gets a fresh Service from the factory, so per-round
// state never leaks between searches.
type BatchRunner struct {
	// serviceFactory creates the Service for each search round.
	serviceFactory func() *Service

	// concurrency caps the number of rounds in flight at once.
	concurrency int

	logger *slog.Logger
}

// BatchRunnerOption configures a BatchRunner.
type BatchRunnerOption func(*BatchRunner)

// WithBatchConcurrency sets the maximum number of concurrent search
// rounds. Default is 4.
func WithBatchConcurrency(n int) BatchRunnerOption {
	return func(b *BatchRunner) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets a custom logger for batch-level events.
func WithBatchLogger(logger *slog.Logger) BatchRunnerOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// NewBatchRunner creates a BatchRunner around a Service factory.
func NewBatchRunner(serviceFactory func() *Service, opts ...BatchRunnerOption) *BatchRunner {
	b := &BatchRunner{
		serviceFactory: serviceFactory,
		concurrency:    4,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Run executes every query and returns one Result per query, in input
// order. A failed round records its error in Result.Err instead of
// aborting the batch; the error return only reports cancellation.
func (b *BatchRunner) Run(ctx context.Context, queries []model.SearchQuery) ([]Result, error) {
	b.logger.Info("starting batch search",
		"queries", len(queries),
		"concurrency", b.concurrency,
	)
	start := time.Now()

	results := make([]Result, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, q := range queries {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			svc := b.serviceFactory()
			result, err := svc.SearchAndStore(ctx, q)
			result.Err = err
			results[i] = result

			if err != nil {
				b.logger.Warn("search round failed",
					"city", q.City,
					"state", q.State,
					"error", err,
				)
				return nil
			}
			return nil
		})
	}

	err := g.Wait()

	b.logger.Info("batch search complete",
		"queries", len(queries),
		"elapsed", time.Since(start),
	)
	return results, err
}
