package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/petscan/petscan/internal/model"
	"github.com/petscan/petscan/internal/source"
)

// DefaultMaxRecords bounds the records gathered in one search round.
// Hitting the ceiling truncates the round (tagged partial), it does not
// fail it.
const DefaultMaxRecords = 1000

// Client is the slice of the source client the planner drives. Satisfied
// by *source.Client; tests substitute fakes.
type Client interface {
	FetchPage(ctx context.Context, q source.SourceQuery, page int) ([]source.RawRecord, int, error)
}

// Planner expands searches into source queries and pages through them.
type Planner struct {
	client     Client
	species    []string
	maxRecords int
	pageDelay  time.Duration
	logger     *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithSpecies overrides the species list used to expand "any". The
// default is the source's enumerated list.
func WithSpecies(species []string) Option {
	return func(p *Planner) {
		if len(species) > 0 {
			p.species = species
		}
	}
}

// WithMaxRecords sets the per-round record ceiling.
func WithMaxRecords(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.maxRecords = n
		}
	}
}

// WithPageDelay sets a politeness pause between page fetches. Zero (the
// test default) disables it.
func WithPageDelay(d time.Duration) Option {
	return func(p *Planner) {
		if d >= 0 {
			p.pageDelay = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = l
	}
}

// New creates a Planner around the given client.
func New(client Client, opts ...Option) *Planner {
	p := &Planner{
		client:     client,
		species:    model.KnownSpecies,
		maxRecords: DefaultMaxRecords,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Plan validates the search and expands it into source queries: one per
// (species, location) pair. A species filter of "any" expands into the
// full species list because the source has no wildcard; the union of the
// per-species results stands in for one. Validation failure wraps
// model.ErrInvalidQuery and guarantees no network call was attempted.
func (p *Planner) Plan(q model.SearchQuery) ([]source.SourceQuery, error) {
	normalized, err := q.Normalize()
	if err != nil {
		return nil, err
	}

	speciesList := []string{normalized.Species}
	if normalized.Species == model.SpeciesAny {
		speciesList = p.species
	}

	queries := make([]source.SourceQuery, 0, len(speciesList))
	for _, species := range speciesList {
		queries = append(queries, source.SourceQuery{
			City:        normalized.City,
			State:       normalized.State,
			Species:     species,
			RadiusMiles: normalized.RadiusMiles,
		})
	}
	return queries, nil
}

// Fetch drives the client through every page of every source query,
// sequentially, and returns the gathered raw records. Once the record
// ceiling is reached it stops paging and reports partial=true; the
// truncated result is still valid.
func (p *Planner) Fetch(ctx context.Context, queries []source.SourceQuery) (records []source.RawRecord, partial bool, err error) {
	for _, q := range queries {
		page := 1
		totalPages := 1
		for page <= totalPages {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}

			pageRecords, reported, err := p.client.FetchPage(ctx, q, page)
			if err != nil {
				return nil, false, fmt.Errorf("fetch %s page %d: %w", q.Species, page, err)
			}
			totalPages = reported

			records = append(records, pageRecords...)
			if len(records) >= p.maxRecords {
				p.logger.Info("record ceiling reached, truncating search round",
					"ceiling", p.maxRecords,
					"species", q.Species,
					"page", page,
				)
				return records[:p.maxRecords], true, nil
			}

			page++
			if page <= totalPages && p.pageDelay > 0 {
				timer := time.NewTimer(p.pageDelay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return nil, false, ctx.Err()
				case <-timer.C:
				}
			}
		}
		p.logger.Debug("source query exhausted",
			"species", q.Species,
			"pages", totalPages,
			"records", len(records),
		)
	}
	return records, false, nil
}
