package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/petscan/petscan/internal/model"
)

// ErrPersistence wraps every store write failure. A failed batch leaves
// the store at its pre-call state; callers surface this as an internal
// error, never as partial data.
var ErrPersistence = errors.New("pet store write failed")

// dbFileName is the SQLite file created inside the store directory.
const dbFileName = "petscan.db"

// PetDB is the SQLite-backed pet store. The connection pool is capped at
// one writer, which serializes concurrent upserts touching the same dedup
// key; SQLite cannot interleave row writes across connections anyway.
type PetDB struct {
	db     *sql.DB
	dbPath string

	// now supplies timestamps for first_seen/last_seen. Overridable in
	// tests for deterministic rows.
	now func() time.Time
}

// Options configures PetDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when
	// they are missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended: readers keep
	// working while a search round commits.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the pet store in the given directory.
func Open(dbDir string, opts Options) (*PetDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw refuses to create a
	// missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; extra connections only add lock
	// contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pdb := &PetDB{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := pdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pdb, nil
}

// Close closes the database connection.
func (pdb *PetDB) Close() error {
	return pdb.db.Close()
}

// SetNowFunc overrides the timestamp source. Intended for tests.
func (pdb *PetDB) SetNowFunc(now func() time.Time) {
	pdb.now = now
}

// createTables creates the schema if it doesn't exist. primary_breed is
// denormalized out of the breeds JSON so grouping and filtering stay plain
// SQL.
func (pdb *PetDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		external_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		species TEXT NOT NULL DEFAULT 'unknown',
		breeds TEXT NOT NULL DEFAULT '[]',
		primary_breed TEXT NOT NULL DEFAULT '',
		mixed INTEGER NOT NULL DEFAULT 0,
		color TEXT NOT NULL DEFAULT '',
		age TEXT NOT NULL DEFAULT 'unknown',
		gender TEXT NOT NULL DEFAULT 'unknown',
		size TEXT NOT NULL DEFAULT 'unknown',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		latitude REAL,
		longitude REAL,
		photo_url TEXT NOT NULL DEFAULT '',
		listing_url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		first_seen TEXT NOT NULL,
		last_seen TEXT NOT NULL,
		UNIQUE(source, external_id)
	);

	CREATE INDEX IF NOT EXISTS idx_pets_species ON pets(species);
	CREATE INDEX IF NOT EXISTS idx_pets_primary_breed ON pets(primary_breed);
	CREATE INDEX IF NOT EXISTS idx_pets_gender ON pets(gender);
	CREATE INDEX IF NOT EXISTS idx_pets_size ON pets(size);
	CREATE INDEX IF NOT EXISTS idx_pets_age ON pets(age);
	`

	_, err := pdb.db.ExecContext(context.Background(), schema)
	return err
}

// UpsertBatch commits one search round's records as a single transaction.
// A record whose (source, external_id) key is absent is inserted with
// first_seen = last_seen = now; an existing record has its mutable fields
// refreshed and last_seen bumped, first_seen untouched. Any failure rolls
// the whole batch back and returns an error wrapping ErrPersistence.
func (pdb *PetDB) UpsertBatch(ctx context.Context, pets []model.Pet) (created, updated int, err error) {
	if len(pets) == 0 {
		return 0, 0, nil
	}

	tx, err := pdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: begin transaction: %v", ErrPersistence, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := pdb.now().UTC().Format(time.RFC3339Nano)

	for i := range pets {
		pet := &pets[i]

		breedsJSON, merr := json.Marshal(pet.Breeds)
		if merr != nil {
			return 0, 0, fmt.Errorf("%w: serialize breeds for %s: %v", ErrPersistence, pet.Key(), merr)
		}

		var exists int
		qerr := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM pets WHERE source = ? AND external_id = ?`,
			pet.Source, pet.ExternalID,
		).Scan(&exists)
		if qerr != nil {
			return 0, 0, fmt.Errorf("%w: lookup %s: %v", ErrPersistence, pet.Key(), qerr)
		}

		if exists == 0 {
			_, ierr := tx.ExecContext(ctx, `
			INSERT INTO pets (
				source, external_id, name, species, breeds, primary_breed,
				mixed, color, age, gender, size,
				city, state, postal_code, latitude, longitude,
				photo_url, listing_url, description, first_seen, last_seen
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				pet.Source, pet.ExternalID, pet.Name, pet.Species, string(breedsJSON), pet.PrimaryBreed(),
				boolToInt(pet.Mixed), pet.Color, string(pet.Age), string(pet.Gender), string(pet.Size),
				pet.City, pet.State, pet.PostalCode, pet.Latitude, pet.Longitude,
				pet.PhotoURL, pet.ListingURL, pet.Description, now, now,
			)
			if ierr != nil {
				return 0, 0, fmt.Errorf("%w: insert %s: %v", ErrPersistence, pet.Key(), ierr)
			}
			created++
		} else {
			_, uerr := tx.ExecContext(ctx, `
			UPDATE pets SET
				name = ?, species = ?, breeds = ?, primary_breed = ?,
				mixed = ?, color = ?, age = ?, gender = ?, size = ?,
				city = ?, state = ?, postal_code = ?, latitude = ?, longitude = ?,
				photo_url = ?, listing_url = ?, description = ?, last_seen = ?
			WHERE source = ? AND external_id = ?`,
				pet.Name, pet.Species, string(breedsJSON), pet.PrimaryBreed(),
				boolToInt(pet.Mixed), pet.Color, string(pet.Age), string(pet.Gender), string(pet.Size),
				pet.City, pet.State, pet.PostalCode, pet.Latitude, pet.Longitude,
				pet.PhotoURL, pet.ListingURL, pet.Description, now,
				pet.Source, pet.ExternalID,
			)
			if uerr != nil {
				return 0, 0, fmt.Errorf("%w: update %s: %v", ErrPersistence, pet.Key(), uerr)
			}
			updated++
		}
	}

	if cerr := tx.Commit(); cerr != nil {
		err = fmt.Errorf("%w: commit: %v", ErrPersistence, cerr)
		return 0, 0, err
	}
	return created, updated, nil
}

// Count returns the number of stored records.
func (pdb *PetDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := pdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pets: %w", err)
	}
	return n, nil
}

// Clear deletes every stored record and returns how many were removed.
// This is the only way records leave the store.
func (pdb *PetDB) Clear(ctx context.Context) (int, error) {
	res, err := pdb.db.ExecContext(ctx, `DELETE FROM pets`)
	if err != nil {
		return 0, fmt.Errorf("%w: clear: %v", ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: clear row count: %v", ErrPersistence, err)
	}
	return int(n), nil
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	// Breed matches any breed containing the substring, case-insensitive.
	Breed string

	// Gender, Size, and Age match their columns exactly.
	Gender string
	Size   string
	Age    string
}

// All returns every stored record in stable (source, external_id) order.
func (pdb *PetDB) All(ctx context.Context) ([]model.Pet, error) {
	return pdb.List(ctx, Filter{})
}

// List returns records matching the filter in stable (source, external_id)
// order.
func (pdb *PetDB) List(ctx context.Context, f Filter) ([]model.Pet, error) {
	builder := sq.Select(
		"source", "external_id", "name", "species", "breeds",
		"mixed", "color", "age", "gender", "size",
		"city", "state", "postal_code", "latitude", "longitude",
		"photo_url", "listing_url", "description", "first_seen", "last_seen",
	).From("pets").OrderBy("source", "external_id")

	if f.Breed != "" {
		builder = builder.Where(sq.Like{"LOWER(primary_breed)": "%" + strings.ToLower(f.Breed) + "%"})
	}
	if f.Gender != "" {
		builder = builder.Where(sq.Eq{"gender": f.Gender})
	}
	if f.Size != "" {
		builder = builder.Where(sq.Eq{"size": f.Size})
	}
	if f.Age != "" {
		builder = builder.Where(sq.Eq{"age": f.Age})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := pdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	defer rows.Close()

	var pets []model.Pet
	for rows.Next() {
		pet, serr := scanPet(rows)
		if serr != nil {
			return nil, serr
		}
		pets = append(pets, pet)
	}
	return pets, rows.Err()
}

// Get returns the record for one dedup key, or nil when absent.
func (pdb *PetDB) Get(ctx context.Context, sourceName, externalID string) (*model.Pet, error) {
	row := pdb.db.QueryRowContext(ctx, `
	SELECT source, external_id, name, species, breeds,
		mixed, color, age, gender, size,
		city, state, postal_code, latitude, longitude,
		photo_url, listing_url, description, first_seen, last_seen
	FROM pets WHERE source = ? AND external_id = ?`,
		sourceName, externalID,
	)
	pet, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

// CountBy returns grouped counts for one dimension. Empty group values
// bucket under "unknown" so every dimension's counts sum to Count().
func (pdb *PetDB) CountBy(ctx context.Context, d model.Dimension) (map[string]int, error) {
	column, ok := dimensionColumns[d]
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", d)
	}

	// column comes from the fixed mapping above, never from user input.
	query := fmt.Sprintf(
		`SELECT COALESCE(NULLIF(%s, ''), 'unknown') AS grp, COUNT(*) FROM pets GROUP BY grp`,
		column,
	)

	rows, err := pdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count by %s: %w", d, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var group string
		var n int
		if err := rows.Scan(&group, &n); err != nil {
			return nil, fmt.Errorf("failed to scan %s count: %w", d, err)
		}
		counts[group] = n
	}
	return counts, rows.Err()
}

// dimensionColumns maps statistic dimensions to their columns.
var dimensionColumns = map[model.Dimension]string{
	model.DimensionSpecies: "species",
	model.DimensionBreed:   "primary_breed",
	model.DimensionSize:    "size",
	model.DimensionGender:  "gender",
	model.DimensionAge:     "age",
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPet materializes one pets row.
func scanPet(row rowScanner) (model.Pet, error) {
	var pet model.Pet
	var breedsJSON string
	var mixed int
	var age, gender, size string
	var lat, lon sql.NullFloat64
	var firstSeen, lastSeen string

	err := row.Scan(
		&pet.Source, &pet.ExternalID, &pet.Name, &pet.Species, &breedsJSON,
		&mixed, &pet.Color, &age, &gender, &size,
		&pet.City, &pet.State, &pet.PostalCode, &lat, &lon,
		&pet.PhotoURL, &pet.ListingURL, &pet.Description, &firstSeen, &lastSeen,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Pet{}, err
		}
		return model.Pet{}, fmt.Errorf("failed to scan pet: %w", err)
	}

	if breedsJSON != "" {
		if jerr := json.Unmarshal([]byte(breedsJSON), &pet.Breeds); jerr != nil {
			return model.Pet{}, fmt.Errorf("failed to parse breeds: %w", jerr)
		}
	}
	pet.Mixed = mixed != 0
	pet.Age = model.AgeCategory(age)
	pet.Gender = model.Gender(gender)
	pet.Size = model.Size(size)
	if lat.Valid {
		v := lat.Float64
		pet.Latitude = &v
	}
	if lon.Valid {
		v := lon.Float64
		pet.Longitude = &v
	}
	pet.FirstSeen = parseTimestamp(firstSeen)
	pet.LastSeen = parseTimestamp(lastSeen)
	return pet, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timestampFormats contains the timestamp formats that may appear in the
// store. Rows written by this package use RFC3339Nano; the other formats
// tolerate rows written by older SQLite tooling.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts each known format, returning zero time when none
// matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
