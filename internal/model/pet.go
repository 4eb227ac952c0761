package model

import (
	"strings"
	"time"
)

// AgeCategory is the normalized age bracket reported by the listing source.
// Parsing never fails: anything the source reports outside the known
// brackets maps to AgeUnknown.
type AgeCategory string

const (
	// AgeBaby covers puppies, kittens, and other infant animals.
	AgeBaby AgeCategory = "baby"

	// AgeYoung covers juveniles past the infant stage.
	AgeYoung AgeCategory = "young"

	// AgeAdult covers fully grown animals.
	AgeAdult AgeCategory = "adult"

	// AgeSenior covers older animals.
	AgeSenior AgeCategory = "senior"

	// AgeUnknown is the default when the source omits or mislabels the age.
	AgeUnknown AgeCategory = "unknown"
)

// ParseAgeCategory maps a raw source value to an AgeCategory.
func ParseAgeCategory(s string) AgeCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "baby", "puppy", "kitten":
		return AgeBaby
	case "young":
		return AgeYoung
	case "adult":
		return AgeAdult
	case "senior":
		return AgeSenior
	default:
		return AgeUnknown
	}
}

// Gender is the normalized sex of the animal.
type Gender string

const (
	// GenderMale is a male animal.
	GenderMale Gender = "male"

	// GenderFemale is a female animal.
	GenderFemale Gender = "female"

	// GenderUnknown is the default when the source omits the field.
	GenderUnknown Gender = "unknown"
)

// ParseGender maps a raw source value to a Gender.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// Size is the normalized size bracket of the animal.
type Size string

const (
	// SizeSmall is a small animal.
	SizeSmall Size = "small"

	// SizeMedium is a medium animal.
	SizeMedium Size = "medium"

	// SizeLarge is a large animal.
	SizeLarge Size = "large"

	// SizeXLarge is an extra-large animal. The source reports this bracket
	// under several spellings ("extra_large", "xlarge", "xl").
	SizeXLarge Size = "xlarge"

	// SizeUnknown is the default when the source omits the field.
	SizeUnknown Size = "unknown"
)

// ParseSize maps a raw source value to a Size.
func ParseSize(s string) Size {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small", "s":
		return SizeSmall
	case "medium", "m":
		return SizeMedium
	case "large", "l":
		return SizeLarge
	case "xlarge", "x-large", "extra_large", "extra large", "xl":
		return SizeXLarge
	default:
		return SizeUnknown
	}
}

// Pet is the canonical adoptable-pet record, independent of any
// source-specific field naming. A record is uniquely identified by the
// (Source, ExternalID) pair.
//
// Lifecycle: a Pet is created on its first normalized sighting, updated
// (mutable fields refreshed, LastSeen bumped) on every later sighting, and
// removed only by an explicit clear-all. LastSeen is always >= FirstSeen.
type Pet struct {
	// Source names the external listing provider, e.g. "petfinder".
	Source string

	// ExternalID is the provider's identifier for this listing.
	// Unique together with Source.
	ExternalID string

	// Name is the pet's display name.
	Name string

	// Species is the animal type (dog, cat, ...). "unknown" when the
	// source omits it.
	Species string

	// Breeds lists the pet's breeds in source order, primary first.
	// May be empty.
	Breeds []string

	// Mixed reports whether the source flagged the pet as a mixed breed.
	Mixed bool

	// Color is the primary coat color as reported by the source.
	Color string

	// Age is the normalized age bracket.
	Age AgeCategory

	// Gender is the normalized sex.
	Gender Gender

	// Size is the normalized size bracket.
	Size Size

	// City, State, and PostalCode locate the pet. All optional.
	City       string
	State      string
	PostalCode string

	// Latitude and Longitude are the listing coordinates when the source
	// provides them. Used only for radius filtering.
	Latitude  *float64
	Longitude *float64

	// PhotoURL points at the primary photo. Optional.
	PhotoURL string

	// ListingURL points at the pet's profile page on the source.
	ListingURL string

	// Description is the listing text with any HTML markup stripped.
	Description string

	// FirstSeen is when this record was first stored. Immutable.
	FirstSeen time.Time

	// LastSeen is when this record was most recently returned by a search.
	LastSeen time.Time
}

// Key returns the dedup key identifying this record across searches.
func (p *Pet) Key() string {
	return p.Source + "/" + p.ExternalID
}

// PrimaryBreed returns the first breed, or empty when the breed list is
// empty. Statistics group multi-breed pets by this value so that one pet
// never counts toward more than one breed bucket.
func (p *Pet) PrimaryBreed() string {
	if len(p.Breeds) == 0 {
		return ""
	}
	return p.Breeds[0]
}

// Location returns "City, State" for display, degrading to whichever part
// is present.
func (p *Pet) Location() string {
	switch {
	case p.City != "" && p.State != "":
		return p.City + ", " + p.State
	case p.City != "":
		return p.City
	case p.State != "":
		return p.State
	default:
		return ""
	}
}
