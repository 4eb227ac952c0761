package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/petscan/petscan/internal/database"
	"github.com/petscan/petscan/internal/export"
	"github.com/petscan/petscan/internal/geo"
	"github.com/petscan/petscan/internal/model"
	"github.com/petscan/petscan/internal/normalize"
	"github.com/petscan/petscan/internal/source"
	"github.com/petscan/petscan/internal/stats"
)

// ErrSourceTimeout is returned when a search round exceeds the configured
// overall budget. It is distinct from a partial result: a timed-out round
// stores nothing, a partial round stores the truncated batch.
var ErrSourceTimeout = errors.New("search timed out against the pet listing source")

// Store is the slice of the pet store the service writes and reads.
// Satisfied by *database.PetDB.
type Store interface {
	UpsertBatch(ctx context.Context, pets []model.Pet) (created, updated int, err error)
	Count(ctx context.Context) (int, error)
	CountBy(ctx context.Context, d model.Dimension) (map[string]int, error)
	Clear(ctx context.Context) (int, error)
	All(ctx context.Context) ([]model.Pet, error)
	List(ctx context.Context, f database.Filter) ([]model.Pet, error)
}

// Fetcher is the slice of the planner the service drives.
// Satisfied by *planner.Planner.
type Fetcher interface {
	Plan(q model.SearchQuery) ([]source.SourceQuery, error)
	Fetch(ctx context.Context, queries []source.SourceQuery) ([]source.RawRecord, bool, error)
}

// Result summarizes one search round.
type Result struct {
	// SessionID uniquely identifies the round in logs and output.
	SessionID string

	// Query is the normalized query that ran.
	Query model.SearchQuery

	// Created and Updated count records inserted and refreshed by the
	// round's batch commit.
	Created int
	Updated int

	// Partial reports that the round hit the record ceiling and stopped
	// paging early. Truncation is not an error.
	Partial bool

	// Err records the round's failure when run through BatchRunner.Run,
	// which reports per-query outcomes instead of failing the whole batch.
	Err error
}

// Service wires the planner, normalizer, and store into the single
// ingestion entry point, plus the read-side operations over the store.
type Service struct {
	fetcher Fetcher
	store   Store
	timeout time.Duration
	logger  *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTimeout bounds one whole search round. Zero disables the bound.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates the ingestion service.
func NewService(fetcher Fetcher, store Store, opts ...ServiceOption) *Service {
	s := &Service{
		fetcher: fetcher,
		store:   store,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// SearchAndStore runs one search round: validate and plan, page through
// the source, normalize, drop records outside the radius when coordinates
// are known, and commit the batch as a unit.
//
// Failures map to sentinels: model.ErrInvalidQuery before any
// network call, source.ErrSourceUnavailable / source.ErrSourceProtocol
// from fetching, ErrSourceTimeout when the overall budget lapses, and
// database.ErrPersistence when the commit fails (store left untouched).
func (s *Service) SearchAndStore(ctx context.Context, q model.SearchQuery) (Result, error) {
	result := Result{SessionID: uuid.NewString()}

	queries, err := s.fetcher.Plan(q)
	if err != nil {
		return result, err
	}
	normalized, err := q.Normalize()
	if err != nil {
		// Plan validated already; reaching here means the two diverged.
		return result, err
	}
	result.Query = normalized

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logger := s.logger.With("session", result.SessionID)
	logger.Info("starting search round",
		"city", normalized.City,
		"state", normalized.State,
		"species", normalized.Species,
		"radius", normalized.RadiusMiles,
		"sourceQueries", len(queries),
	)

	records, partial, err := s.fetcher.Fetch(ctx, queries)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, fmt.Errorf("%w: budget %s exceeded", ErrSourceTimeout, s.timeout)
		}
		return result, err
	}
	result.Partial = partial

	pets := normalize.NormalizeAll(records)
	dropped := len(records) - len(pets)
	if dropped > 0 {
		logger.Debug("dropped records without identity", "count", dropped)
	}

	pets = s.filterByRadius(normalized, pets, logger)

	created, updated, err := s.store.UpsertBatch(ctx, pets)
	if err != nil {
		return result, err
	}
	result.Created = created
	result.Updated = updated

	logger.Info("search round committed",
		"created", created,
		"updated", updated,
		"partial", partial,
	)
	return result, nil
}

// filterByRadius drops pets whose coordinates place them outside the
// requested radius. The filter only applies when the search city has
// known coordinates; pets without coordinates always pass, since absence
// of data is not evidence of distance.
func (s *Service) filterByRadius(q model.SearchQuery, pets []model.Pet, logger *slog.Logger) []model.Pet {
	centerLat, centerLon, ok := geo.Lookup(q.City, q.State)
	if !ok {
		return pets
	}

	kept := pets[:0]
	filtered := 0
	for i := range pets {
		pet := pets[i]
		if pet.Latitude == nil || pet.Longitude == nil {
			kept = append(kept, pet)
			continue
		}
		if geo.Miles(centerLat, centerLon, *pet.Latitude, *pet.Longitude) <= float64(q.RadiusMiles) {
			kept = append(kept, pet)
			continue
		}
		filtered++
	}
	if filtered > 0 {
		logger.Debug("filtered records outside radius",
			"count", filtered,
			"radius", q.RadiusMiles,
		)
	}
	return kept
}

// ComputeStatistics returns a fresh snapshot over the current store.
func (s *Service) ComputeStatistics(ctx context.Context) (model.StatisticsSnapshot, error) {
	return stats.NewAggregator(s.store).Compute(ctx)
}

// ExportCSV streams the full store as CSV: header row, then one row per
// pet in stable order.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	pets, err := s.store.All(ctx)
	if err != nil {
		return fmt.Errorf("load pets for export: %w", err)
	}
	return export.Write(w, pets)
}

// ListPets returns stored records narrowed by the filter.
func (s *Service) ListPets(ctx context.Context, f database.Filter) ([]model.Pet, error) {
	return s.store.List(ctx, f)
}

// ClearAll deletes every stored record and returns the count removed.
// Irreversible; any confirmation belongs to the caller.
func (s *Service) ClearAll(ctx context.Context) (int, error) {
	deleted, err := s.store.Clear(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("cleared pet store", "deleted", deleted)
	return deleted, nil
}
