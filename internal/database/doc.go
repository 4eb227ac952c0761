// Package database provides the SQLite-backed pet store. It owns the
// dedup-and-upsert semantics: one row per (source, external_id) pair,
// batched commits that either fully apply or fully roll back, and the
// grouped counts the statistics aggregator is built on.
package database
