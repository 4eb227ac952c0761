package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/petscan/petscan/internal/database"
	"github.com/petscan/petscan/internal/export"
	"github.com/petscan/petscan/internal/model"
	"github.com/petscan/petscan/internal/source"
)

// fakeFetcher serves canned records instead of paging a live source.
type fakeFetcher struct {
	records []source.RawRecord
	partial bool
	err     error

	// block makes Fetch wait for context cancellation, for timeout tests.
	block bool
}

func (f *fakeFetcher) Plan(q model.SearchQuery) ([]source.SourceQuery, error) {
	normalized, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	return []source.SourceQuery{{
		City:        normalized.City,
		State:       normalized.State,
		Species:     normalized.Species,
		RadiusMiles: normalized.RadiusMiles,
	}}, nil
}

func (f *fakeFetcher) Fetch(ctx context.Context, _ []source.SourceQuery) ([]source.RawRecord, bool, error) {
	if f.block {
		<-ctx.Done()
		return nil, false, ctx.Err()
	}
	if f.err != nil {
		return nil, false, f.err
	}
	return f.records, f.partial, nil
}

// rawRecords builds n raw records with sequential ids.
func rawRecords(n int) []source.RawRecord {
	records := make([]source.RawRecord, n)
	for i := range records {
		records[i] = source.RawRecord{
			Animal: source.RawAnimal{
				ID:   json.Number(fmt.Sprintf("%d", 1000+i)),
				Name: fmt.Sprintf("Pet %d", i),
				Type: "dog",
			},
			Source:        "petfinder",
			SearchSpecies: "dog",
		}
	}
	return records
}

// newTestStore opens a throwaway database.
func newTestStore(t *testing.T) *database.PetDB {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// testQuery is the search used across service tests.
var testQuery = model.SearchQuery{
	City:        "Seattle",
	State:       "WA",
	Species:     "dog",
	RadiusMiles: 100,
}

// TestSearchAndStore tests the full round: fetch, normalize, commit.
func TestSearchAndStore(t *testing.T) {
	t.Parallel()

	t.Run("first round creates, second updates", func(t *testing.T) {
		t.Parallel()

		db := newTestStore(t)
		svc := NewService(&fakeFetcher{records: rawRecords(37)}, db)

		result, err := svc.SearchAndStore(context.Background(), testQuery)
		if err != nil {
			t.Fatalf("SearchAndStore() returned error: %v", err)
		}
		if result.Created != 37 || result.Updated != 0 {
			t.Errorf("created/updated = %d/%d, want 37/0", result.Created, result.Updated)
		}
		if result.Partial {
			t.Error("Partial = true, want false")
		}
		if result.SessionID == "" {
			t.Error("SessionID is empty")
		}

		rerun, err := svc.SearchAndStore(context.Background(), testQuery)
		if err != nil {
			t.Fatalf("second SearchAndStore() returned error: %v", err)
		}
		if rerun.Created != 0 || rerun.Updated != 37 {
			t.Errorf("rerun created/updated = %d/%d, want 0/37", rerun.Created, rerun.Updated)
		}
		if rerun.SessionID == result.SessionID {
			t.Error("rounds must get distinct session ids")
		}

		n, err := db.Count(context.Background())
		if err != nil {
			t.Fatalf("Count() returned error: %v", err)
		}
		if n != 37 {
			t.Errorf("store holds %d pets after rerun, want 37", n)
		}
	})

	t.Run("records without identity are dropped, not fatal", func(t *testing.T) {
		t.Parallel()

		records := rawRecords(3)
		records = append(records, source.RawRecord{
			Animal: source.RawAnimal{Name: "No Identity"},
		})

		db := newTestStore(t)
		svc := NewService(&fakeFetcher{records: records}, db)

		result, err := svc.SearchAndStore(context.Background(), testQuery)
		if err != nil {
			t.Fatalf("SearchAndStore() returned error: %v", err)
		}
		if result.Created != 3 {
			t.Errorf("created = %d, want 3", result.Created)
		}
	})

	t.Run("partial flag passes through", func(t *testing.T) {
		t.Parallel()

		db := newTestStore(t)
		svc := NewService(&fakeFetcher{records: rawRecords(5), partial: true}, db)

		result, err := svc.SearchAndStore(context.Background(), testQuery)
		if err != nil {
			t.Fatalf("SearchAndStore() returned error: %v", err)
		}
		if !result.Partial {
			t.Error("Partial = false, want true")
		}
		if result.Created != 5 {
			t.Errorf("created = %d, want 5 (truncated batch still commits)", result.Created)
		}
	})

	t.Run("invalid query fails before fetching", func(t *testing.T) {
		t.Parallel()

		db := newTestStore(t)
		svc := NewService(&fakeFetcher{records: rawRecords(1)}, db)

		q := testQuery
		q.RadiusMiles = 9999
		_, err := svc.SearchAndStore(context.Background(), q)
		if !errors.Is(err, model.ErrInvalidQuery) {
			t.Errorf("error = %v, want ErrInvalidQuery", err)
		}

		n, _ := db.Count(context.Background())
		if n != 0 {
			t.Errorf("store holds %d pets after invalid query, want 0", n)
		}
	})

	t.Run("timeout maps to ErrSourceTimeout", func(t *testing.T) {
		t.Parallel()

		db := newTestStore(t)
		svc := NewService(&fakeFetcher{block: true}, db,
			WithTimeout(20*time.Millisecond),
		)

		_, err := svc.SearchAndStore(context.Background(), testQuery)
		if !errors.Is(err, ErrSourceTimeout) {
			t.Errorf("error = %v, want ErrSourceTimeout", err)
		}

		n, _ := db.Count(context.Background())
		if n != 0 {
			t.Errorf("store holds %d pets after timeout, want 0", n)
		}
	})

	t.Run("fetch failure surfaces unchanged", func(t *testing.T) {
		t.Parallel()

		db := newTestStore(t)
		svc := NewService(&fakeFetcher{err: source.ErrSourceUnavailable}, db)

		_, err := svc.SearchAndStore(context.Background(), testQuery)
		if !errors.Is(err, source.ErrSourceUnavailable) {
			t.Errorf("error = %v, want ErrSourceUnavailable", err)
		}
	})
}

// TestSearchAndStoreRadiusFilter tests coordinate-based post-filtering.
func TestSearchAndStoreRadiusFilter(t *testing.T) {
	t.Parallel()

	seattleLat, seattleLon := 47.62, -122.33
	portlandLat, portlandLon := 45.5152, -122.6784

	records := []source.RawRecord{
		{
			Animal: source.RawAnimal{ID: json.Number("1"), Type: "dog"},
			Location: &source.RawLocation{
				Geo: &source.RawGeo{Latitude: &seattleLat, Longitude: &seattleLon},
			},
			Source: "petfinder",
		},
		{
			Animal: source.RawAnimal{ID: json.Number("2"), Type: "dog"},
			Location: &source.RawLocation{
				Geo: &source.RawGeo{Latitude: &portlandLat, Longitude: &portlandLon},
			},
			Source: "petfinder",
		},
		// No coordinates: absence of data is not evidence of distance.
		{Animal: source.RawAnimal{ID: json.Number("3"), Type: "dog"}, Source: "petfinder"},
	}

	db := newTestStore(t)
	svc := NewService(&fakeFetcher{records: records}, db)

	q := testQuery
	q.RadiusMiles = 25
	result, err := svc.SearchAndStore(context.Background(), q)
	if err != nil {
		t.Fatalf("SearchAndStore() returned error: %v", err)
	}
	if result.Created != 2 {
		t.Errorf("created = %d, want 2 (portland record is ~145 miles out)", result.Created)
	}

	far, err := db.Get(context.Background(), "petfinder", "2")
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if far != nil {
		t.Error("out-of-radius record should not be stored")
	}
}

// TestServiceStoreOperations tests the read-side facade.
func TestServiceStoreOperations(t *testing.T) {
	t.Parallel()

	db := newTestStore(t)
	svc := NewService(&fakeFetcher{records: rawRecords(4)}, db)

	ctx := context.Background()
	if _, err := svc.SearchAndStore(ctx, testQuery); err != nil {
		t.Fatalf("SearchAndStore() returned error: %v", err)
	}

	snapshot, err := svc.ComputeStatistics(ctx)
	if err != nil {
		t.Fatalf("ComputeStatistics() returned error: %v", err)
	}
	if snapshot.Total != 4 {
		t.Errorf("Total = %d, want 4", snapshot.Total)
	}
	if snapshot.Species["dog"] != 4 {
		t.Errorf("Species[dog] = %d, want 4", snapshot.Species["dog"])
	}

	var csvOut bytes.Buffer
	if err := svc.ExportCSV(ctx, &csvOut); err != nil {
		t.Fatalf("ExportCSV() returned error: %v", err)
	}
	exported, err := export.ReadAll(&csvOut)
	if err != nil {
		t.Fatalf("exported CSV does not parse back: %v", err)
	}
	if len(exported) != 4 {
		t.Errorf("exported %d pets, want 4", len(exported))
	}

	listed, err := svc.ListPets(ctx, database.Filter{Gender: "unknown"})
	if err != nil {
		t.Fatalf("ListPets() returned error: %v", err)
	}
	if len(listed) != 4 {
		t.Errorf("listed %d pets, want 4 (all fakes have unknown gender)", len(listed))
	}

	deleted, err := svc.ClearAll(ctx)
	if err != nil {
		t.Fatalf("ClearAll() returned error: %v", err)
	}
	if deleted != 4 {
		t.Errorf("deleted = %d, want 4", deleted)
	}

	snapshot, err = svc.ComputeStatistics(ctx)
	if err != nil {
		t.Fatalf("ComputeStatistics() after clear returned error: %v", err)
	}
	if snapshot.Total != 0 {
		t.Errorf("Total after clear = %d, want 0", snapshot.Total)
	}
}
