// Package model defines the canonical data types shared across petscan:
// the normalized Pet record, the user-facing SearchQuery, and the
// StatisticsSnapshot derived from the stored record set.
package model
