package source

import "encoding/json"

// SourceQuery is one concrete query against the external source: a single
// species at a single location. The planner produces these from a
// SearchQuery; the client pages through each one.
type SourceQuery struct {
	// City is the search center city, already normalized.
	City string

	// State is the two-letter US state code, already normalized.
	State string

	// Species is a single animal type drawn from the source's enumerated
	// list. Never a wildcard: the planner expands "any" before the client
	// sees the query.
	Species string

	// RadiusMiles is the search radius passed through to the source.
	RadiusMiles int
}

// envelope is the top-level JSON object the source returns. A response
// without the result key is structurally invalid.
type envelope struct {
	Result *resultBody `json:"result"`
}

// resultBody carries one page of listings plus pagination metadata.
type resultBody struct {
	Animals    []RawRecord `json:"animals"`
	Pagination pagination  `json:"pagination"`
}

// pagination echoes the source's offset-paging state.
type pagination struct {
	TotalPages int `json:"total_pages"`
}

// RawRecord is one listing exactly as the source serialized it. The
// normalizer is the only consumer; nothing downstream of it sees raw
// source fields.
type RawRecord struct {
	// Animal holds the pet attributes.
	Animal RawAnimal `json:"animal"`

	// Location holds the shelter address and coordinates, when present.
	Location *RawLocation `json:"location,omitempty"`

	// Source names the provider this record came from. Stamped by the
	// client after decoding, not part of the wire format.
	Source string `json:"-"`

	// SearchSpecies is the species filter of the query that returned this
	// record. Used as a fallback when the record omits its own type.
	// Stamped by the client, not part of the wire format.
	SearchSpecies string `json:"-"`
}

// RawAnimal mirrors the source's loosely typed animal object. Every field
// is optional on the wire; absence degrades to defaults at the normalizer
// boundary rather than failing the record.
type RawAnimal struct {
	// ID is the source's listing identifier. json.Number tolerates the
	// source switching between numeric and string encodings.
	ID json.Number `json:"id,omitempty"`

	Name           string            `json:"name,omitempty"`
	Type           string            `json:"type,omitempty"`
	PrimaryBreed   *RawBreed         `json:"primary_breed,omitempty"`
	SecondaryBreed *RawBreed         `json:"secondary_breed,omitempty"`
	IsMixedBreed   bool              `json:"is_mixed_breed,omitempty"`
	PrimaryColor   string            `json:"primary_color,omitempty"`
	Age            string            `json:"age,omitempty"`
	Sex            string            `json:"sex,omitempty"`
	Size           string            `json:"size,omitempty"`
	Description    string            `json:"description,omitempty"`
	URL            string            `json:"url,omitempty"`
	PrimaryPhoto   string            `json:"primary_photo_cropped_url,omitempty"`
	SocialSharing  *RawSocialSharing `json:"social_sharing,omitempty"`
}

// RawBreed is a breed reference inside an animal object.
type RawBreed struct {
	Name string `json:"name,omitempty"`
}

// RawSocialSharing carries the sharing links block. EmailURL doubles as
// the listing profile URL on this source.
type RawSocialSharing struct {
	EmailURL string `json:"email_url,omitempty"`
}

// RawLocation mirrors the source's location object.
type RawLocation struct {
	Address *RawAddress `json:"address,omitempty"`
	Geo     *RawGeo     `json:"geo,omitempty"`
}

// RawAddress is the shelter's postal address.
type RawAddress struct {
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// RawGeo is the listing coordinates.
type RawGeo struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
