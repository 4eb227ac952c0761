package normalize

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/petscan/petscan/internal/model"
	"github.com/petscan/petscan/internal/source"
)

// Normalize maps one raw source record to a canonical Pet. It returns nil
// when the record lacks the minimum viable identity: no external
// identifier and no listing URL to derive one from. That is the only
// condition that drops a record; every other missing field degrades:
// enum fields become "unknown", the breed list becomes empty, location
// strings stay empty.
//
// FirstSeen and LastSeen are left zero; the persistence layer assigns them
// at commit time.
func Normalize(rec source.RawRecord) *model.Pet {
	listingURL := listingURL(rec.Animal)
	id := externalID(rec.Animal, listingURL)
	if id == "" {
		return nil
	}

	pet := &model.Pet{
		Source:      rec.Source,
		ExternalID:  id,
		Name:        strings.TrimSpace(rec.Animal.Name),
		Species:     species(rec),
		Breeds:      breeds(rec.Animal),
		Mixed:       rec.Animal.IsMixedBreed,
		Color:       strings.TrimSpace(rec.Animal.PrimaryColor),
		Age:         model.ParseAgeCategory(rec.Animal.Age),
		Gender:      model.ParseGender(rec.Animal.Sex),
		Size:        model.ParseSize(rec.Animal.Size),
		PhotoURL:    strings.TrimSpace(rec.Animal.PrimaryPhoto),
		ListingURL:  listingURL,
		Description: StripHTML(rec.Animal.Description),
	}

	if rec.Location != nil {
		if addr := rec.Location.Address; addr != nil {
			pet.City = strings.TrimSpace(addr.City)
			pet.State = strings.TrimSpace(addr.State)
			pet.PostalCode = strings.TrimSpace(addr.PostalCode)
		}
		if geo := rec.Location.Geo; geo != nil {
			pet.Latitude = geo.Latitude
			pet.Longitude = geo.Longitude
		}
	}

	return pet
}

// NormalizeAll maps a batch of raw records, silently skipping the ones
// that lack identity. The returned slice preserves source order.
func NormalizeAll(records []source.RawRecord) []model.Pet {
	pets := make([]model.Pet, 0, len(records))
	for _, rec := range records {
		if pet := Normalize(rec); pet != nil {
			pets = append(pets, *pet)
		}
	}
	return pets
}

// externalID resolves the record's identity: the source's listing id when
// present, otherwise the trailing path segment of the listing URL.
func externalID(a source.RawAnimal, listingURL string) string {
	if id := strings.TrimSpace(a.ID.String()); id != "" {
		return id
	}
	return urlSlug(listingURL)
}

// urlSlug returns the last path segment of a listing URL, which on this
// source encodes the listing identity (".../dog/rex-12345/"). A URL with
// no path carries no identity.
func urlSlug(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.EscapedPath(), "/")
	if path == "" {
		return ""
	}
	segs := strings.Split(path, "/")
	return segs[len(segs)-1]
}

// listingURL prefers the animal's own profile URL and falls back to the
// sharing link, which points at the same page on this source.
func listingURL(a source.RawAnimal) string {
	if u := strings.TrimSpace(a.URL); u != "" {
		return u
	}
	if a.SocialSharing != nil {
		return strings.TrimSpace(a.SocialSharing.EmailURL)
	}
	return ""
}

// species uses the record's own type, falling back to the species filter
// of the originating query, then to "unknown".
func species(rec source.RawRecord) string {
	if t := strings.ToLower(strings.TrimSpace(rec.Animal.Type)); t != "" {
		return t
	}
	if s := strings.ToLower(strings.TrimSpace(rec.SearchSpecies)); s != "" {
		return s
	}
	return "unknown"
}

// breeds collects the primary and secondary breeds, in that order,
// skipping absent entries.
func breeds(a source.RawAnimal) []string {
	var out []string
	if a.PrimaryBreed != nil {
		if name := strings.TrimSpace(a.PrimaryBreed.Name); name != "" {
			out = append(out, name)
		}
	}
	if a.SecondaryBreed != nil {
		if name := strings.TrimSpace(a.SecondaryBreed.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// StripHTML reduces a description that may carry HTML markup to plain
// text. Input without markup passes through trimmed; unparseable input
// falls back to the trimmed original rather than dropping the field.
func StripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(strings.Join(strings.Fields(doc.Text()), " "))
}
