package stats

import (
	"context"
	"fmt"

	"github.com/petscan/petscan/internal/model"
)

// Store is the slice of the pet store the aggregator reads. Satisfied by
// *database.PetDB.
type Store interface {
	Count(ctx context.Context) (int, error)
	CountBy(ctx context.Context, d model.Dimension) (map[string]int, error)
}

// Aggregator derives StatisticsSnapshots from the store. It holds no
// cache: every Compute call reads the store, so a snapshot always reflects
// the latest committed batch.
type Aggregator struct {
	store Store
}

// NewAggregator creates an Aggregator over the given store.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Compute builds a fresh snapshot. An empty store yields a zero snapshot
// with empty dimension maps, not an error.
func (a *Aggregator) Compute(ctx context.Context) (model.StatisticsSnapshot, error) {
	snapshot := model.NewStatisticsSnapshot()

	total, err := a.store.Count(ctx)
	if err != nil {
		return snapshot, fmt.Errorf("count pets: %w", err)
	}
	snapshot.Total = total
	if total == 0 {
		return snapshot, nil
	}

	for _, dim := range model.Dimensions {
		counts, err := a.store.CountBy(ctx, dim)
		if err != nil {
			return model.NewStatisticsSnapshot(), fmt.Errorf("count by %s: %w", dim, err)
		}
		dst := snapshot.ByDimension(dim)
		for k, v := range counts {
			dst[k] = v
		}
	}
	return snapshot, nil
}
