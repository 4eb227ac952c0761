// Package normalize converts raw source records into canonical Pet
// records. Normalization is a pure, deterministic mapping with no I/O:
// every absent or unrecognized field degrades to a default, and the only
// record-level rejection is a missing external identifier.
package normalize
