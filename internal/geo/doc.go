// Package geo provides haversine distance and a best-effort coordinate
// lookup for common US cities, used to post-filter search results that
// fall outside the requested radius.
package geo
