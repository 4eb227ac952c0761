package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/petscan/petscan/internal/config"
	"github.com/petscan/petscan/internal/database"
	"github.com/petscan/petscan/internal/ingest"
	"github.com/petscan/petscan/internal/model"
	"github.com/petscan/petscan/internal/planner"
	"github.com/petscan/petscan/internal/source"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search adoptable pets near a city and store the results",
		Long: `Search queries the pet listing source for adoptable pets near a US city,
normalizes the results, and stores them in the local database. Records
seen before are updated in place, so repeated searches never create
duplicates.

Examples:
  # Search for dogs within 100 miles of Seattle
  petscan search --city Seattle --state WA --species dog

  # Search every species within 50 miles
  petscan search --city Austin --state TX --radius 50

  # Run every saved search from the config file, four at a time
  petscan search --batch

Configuration file (.petscan) example:
  sources:
    petfinder:
      headers:
        Cookie: "session=abc123"
  searches:
    - city: Seattle
      state: WA
      species: dog
    - city: Portland
      state: OR
      radius: 50`,
		Args: cobra.NoArgs,
		RunE: runSearchCmd,
	}

	// Query flags
	cmd.Flags().String("city", "", "City to search near (e.g., Seattle)")
	cmd.Flags().String("state", "", "Two-letter state code (e.g., WA)")
	cmd.Flags().StringP("species", "s", "any",
		"Species to search for (dog, cat, rabbit, ... or \"any\")")
	cmd.Flags().IntP("radius", "r", config.DefaultRadiusMiles,
		"Search radius in miles (1-500)")

	// Paging and budget flags
	cmd.Flags().Int("page-size", config.DefaultPageSize,
		"Records requested per page")
	cmd.Flags().Int("max-records", config.DefaultMaxRecords,
		"Maximum records ingested per search")
	cmd.Flags().Duration("page-delay", config.DefaultPageDelay,
		"Pause between page fetches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultSearchTimeout,
		"Overall budget for one search (0 disables)")
	cmd.Flags().Duration("request-timeout", config.DefaultRequestTimeout,
		"Timeout for each page fetch")

	// Batch flags
	cmd.Flags().BoolP("batch", "b", false,
		"Run every saved search from the config file")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of batch searches run at once")

	// Configuration file and database location
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .petscan in current or home directory)")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runSearch(ctx, cmd, cfg, logger)
}

// buildConfig creates a Config from cobra command flags and the optional
// config file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	if cfg.City, err = cmd.Flags().GetString("city"); err != nil {
		return nil, err
	}
	if cfg.State, err = cmd.Flags().GetString("state"); err != nil {
		return nil, err
	}
	if cfg.Species, err = cmd.Flags().GetString("species"); err != nil {
		return nil, err
	}
	if cfg.RadiusMiles, err = cmd.Flags().GetInt("radius"); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = cmd.Flags().GetInt("page-size"); err != nil {
		return nil, err
	}
	if cfg.MaxRecords, err = cmd.Flags().GetInt("max-records"); err != nil {
		return nil, err
	}
	if cfg.PageDelay, err = cmd.Flags().GetDuration("page-delay"); err != nil {
		return nil, err
	}
	if cfg.SearchTimeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = cmd.Flags().GetDuration("request-timeout"); err != nil {
		return nil, err
	}
	if cfg.Batch, err = cmd.Flags().GetBool("batch"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	// If the user explicitly specified a config file path, error if not
	// found. Otherwise a missing file just means no profiles or saved
	// searches.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.FileConfig, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runSearch executes the search against the configured source and store.
func runSearch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "dir", cfg.DBDir)

	serviceFactory := func() *ingest.Service {
		return newService(cfg, db, logger)
	}

	if cfg.Batch {
		return runBatchSearch(ctx, cmd, cfg, serviceFactory, logger)
	}

	query := model.SearchQuery{
		City:        cfg.City,
		State:       cfg.State,
		Species:     cfg.Species,
		RadiusMiles: cfg.RadiusMiles,
	}

	start := time.Now()
	result, err := serviceFactory().SearchAndStore(ctx, query)
	if err != nil {
		return describeSearchError(err)
	}

	printResult(cmd, result, time.Since(start))
	return nil
}

// runBatchSearch runs every saved search from the config file.
func runBatchSearch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, serviceFactory func() *ingest.Service, logger *slog.Logger) error {
	queries := make([]model.SearchQuery, 0, len(cfg.FileConfig.Searches))
	for _, spec := range cfg.FileConfig.Searches {
		q := model.SearchQuery{
			City:        spec.City,
			State:       spec.State,
			Species:     spec.Species,
			RadiusMiles: spec.Radius,
		}
		if q.Species == "" {
			q.Species = cfg.Species
		}
		if q.RadiusMiles == 0 {
			q.RadiusMiles = cfg.RadiusMiles
		}
		queries = append(queries, q)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Running %d saved searches (concurrency: %d)...\n\n",
		len(queries), cfg.Concurrency)
	start := time.Now()

	runner := ingest.NewBatchRunner(serviceFactory,
		ingest.WithBatchConcurrency(cfg.Concurrency),
		ingest.WithBatchLogger(logger),
	)
	results, err := runner.Run(ctx, queries)
	if err != nil {
		return err
	}

	failed := 0
	for i, result := range results {
		q := queries[i]
		if result.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s, %s: %v\n",
				i+1, len(results), q.City, q.State, result.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s, %s: %d new, %d updated%s\n",
			i+1, len(results), result.Query.City, result.Query.State,
			result.Created, result.Updated, partialSuffix(result.Partial))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nBatch completed in %s\n", time.Since(start).Round(time.Millisecond))
	if failed == len(results) && failed > 0 {
		return fmt.Errorf("all %d searches failed", failed)
	}
	return nil
}

// newService wires a fresh ingestion service from the configuration.
func newService(cfg *config.Config, db *database.PetDB, logger *slog.Logger) *ingest.Service {
	profile := cfg.FileConfig.GetSourceProfile(source.DefaultSourceName)

	clientOpts := []source.Option{
		source.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		source.WithPageSize(cfg.PageSize),
		source.WithLogger(logger),
	}
	if profile.BaseURL != "" {
		clientOpts = append(clientOpts, source.WithBaseURL(profile.BaseURL))
	}
	if profile.UserAgent != "" {
		clientOpts = append(clientOpts, source.WithUserAgent(profile.UserAgent))
	}
	if len(profile.Headers) > 0 {
		clientOpts = append(clientOpts, source.WithHeaders(profile.Headers))
	}

	client := source.NewClient(clientOpts...)

	p := planner.New(client,
		planner.WithMaxRecords(cfg.MaxRecords),
		planner.WithPageDelay(cfg.PageDelay),
		planner.WithLogger(logger),
	)

	return ingest.NewService(p, db,
		ingest.WithTimeout(cfg.SearchTimeout),
		ingest.WithLogger(logger),
	)
}

// printResult reports one completed search round on stdout.
func printResult(cmd *cobra.Command, result ingest.Result, elapsed time.Duration) {
	fmt.Fprintf(cmd.OutOrStdout(), "Search completed in %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(cmd.OutOrStdout(), "  session: %s\n", result.SessionID)
	fmt.Fprintf(cmd.OutOrStdout(), "  new:     %d\n", result.Created)
	fmt.Fprintf(cmd.OutOrStdout(), "  updated: %d\n", result.Updated)
	if result.Partial {
		fmt.Fprintf(cmd.OutOrStdout(), "  note:    record ceiling reached, results truncated\n")
	}
}

// describeSearchError attaches a hint to the well-known failure modes.
func describeSearchError(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidQuery):
		return fmt.Errorf("%w (check --city, --state, --species, and --radius)", err)
	case errors.Is(err, ingest.ErrSourceTimeout):
		return fmt.Errorf("%w (raise --timeout or narrow the search)", err)
	case errors.Is(err, source.ErrSourceUnavailable):
		return fmt.Errorf("%w (the source may be down or rate limiting; try again later)", err)
	default:
		return err
	}
}

func partialSuffix(partial bool) string {
	if partial {
		return " (truncated)"
	}
	return ""
}
