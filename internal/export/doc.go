// Package export serializes the stored pet set to CSV and parses the same
// CSV layout back into canonical records, so an export round-trips.
package export
