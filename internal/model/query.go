package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidQuery is the base error for search validation failures.
// Callers match it with errors.Is; the wrapped message names the field
// that failed so the surrounding UI can show a concrete validation hint.
var ErrInvalidQuery = errors.New("invalid search query")

// SpeciesAny requests every species the source enumerates. The planner
// expands it into one source query per known species because the source
// has no wildcard filter.
const SpeciesAny = "any"

// KnownSpecies enumerates the animal types the external source accepts as
// a type filter. Order matters: it is the expansion order for SpeciesAny.
var KnownSpecies = []string{
	"dog",
	"cat",
	"rabbit",
	"bird",
	"small-furry",
	"horse",
	"barnyard",
	"reptile",
	"amphibian",
}

// Radius limits imposed by the external source.
const (
	// MinRadiusMiles is the smallest search radius the source accepts.
	MinRadiusMiles = 1

	// MaxRadiusMiles is the largest search radius the source accepts.
	MaxRadiusMiles = 500
)

// usStates holds the two-letter codes accepted in SearchQuery.State.
var usStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "DC": true, "FL": true, "GA": true, "HI": true,
	"ID": true, "IL": true, "IN": true, "IA": true, "KS": true, "KY": true,
	"LA": true, "ME": true, "MD": true, "MA": true, "MI": true, "MN": true,
	"MS": true, "MO": true, "MT": true, "NE": true, "NV": true, "NH": true,
	"NJ": true, "NM": true, "NY": true, "NC": true, "ND": true, "OH": true,
	"OK": true, "OR": true, "PA": true, "RI": true, "SC": true, "SD": true,
	"TN": true, "TX": true, "UT": true, "VT": true, "VA": true, "WA": true,
	"WV": true, "WI": true, "WY": true,
}

// cityPattern restricts city names to letters, spaces, hyphens, and
// apostrophes.
var cityPattern = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)

// titleCaser title-cases city names for consistent location slugs.
var titleCaser = cases.Title(language.AmericanEnglish)

// SearchQuery is a user-supplied search. It is ephemeral: validated,
// normalized, handed to the planner, and never persisted.
type SearchQuery struct {
	// City is the search center city. Required together with State.
	City string

	// State is the two-letter US state code. Required together with City.
	State string

	// Species filters by animal type. SpeciesAny expands to all known
	// species.
	Species string

	// RadiusMiles is the search radius. Must be within the source's
	// 1..500 mile bounds.
	RadiusMiles int
}

// Normalize validates the query and returns a cleaned copy: city trimmed
// and title-cased, state upper-cased, species lower-cased. It returns an
// error wrapping ErrInvalidQuery when any field is out of bounds; no
// network call may be attempted after a validation failure.
func (q SearchQuery) Normalize() (SearchQuery, error) {
	q.City = strings.TrimSpace(q.City)
	q.State = strings.ToUpper(strings.TrimSpace(q.State))
	q.Species = strings.ToLower(strings.TrimSpace(q.Species))

	if q.City == "" || q.State == "" {
		return q, fmt.Errorf("%w: city and state are required together", ErrInvalidQuery)
	}
	if !cityPattern.MatchString(q.City) {
		return q, fmt.Errorf("%w: city %q may only contain letters, spaces, hyphens, and apostrophes", ErrInvalidQuery, q.City)
	}
	if !usStates[q.State] {
		return q, fmt.Errorf("%w: unknown state code %q", ErrInvalidQuery, q.State)
	}
	if q.RadiusMiles < MinRadiusMiles || q.RadiusMiles > MaxRadiusMiles {
		return q, fmt.Errorf("%w: radius must be between %d and %d miles, got %d",
			ErrInvalidQuery, MinRadiusMiles, MaxRadiusMiles, q.RadiusMiles)
	}
	if q.Species == "" {
		q.Species = SpeciesAny
	}
	if q.Species != SpeciesAny && !IsKnownSpecies(q.Species) {
		return q, fmt.Errorf("%w: unknown species %q", ErrInvalidQuery, q.Species)
	}

	q.City = titleCaser.String(strings.ToLower(q.City))
	return q, nil
}

// IsKnownSpecies reports whether the source enumerates the given species.
func IsKnownSpecies(species string) bool {
	for _, s := range KnownSpecies {
		if s == species {
			return true
		}
	}
	return false
}
