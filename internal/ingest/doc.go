// Package ingest orchestrates one search round end to end: plan the
// source queries, fetch the pages, normalize the records, filter by
// radius, and commit the batch. It also exposes the store-level
// operations (statistics, CSV export, clear-all) consumed by the CLI.
package ingest
