package normalize

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/petscan/petscan/internal/model"
	"github.com/petscan/petscan/internal/source"
)

// fullRecord builds a raw record with every field populated.
func fullRecord() source.RawRecord {
	lat := 47.6062
	lon := -122.3321
	return source.RawRecord{
		Animal: source.RawAnimal{
			ID:             json.Number("12345"),
			Name:           "Rex",
			Type:           "Dog",
			PrimaryBreed:   &source.RawBreed{Name: "Labrador Retriever"},
			SecondaryBreed: &source.RawBreed{Name: "Poodle"},
			IsMixedBreed:   true,
			PrimaryColor:   "Black",
			Age:            "Adult",
			Sex:            "Male",
			Size:           "Large",
			Description:    "A very good dog.",
			URL:            "https://example.com/dog/rex-12345/",
			PrimaryPhoto:   "https://example.com/photos/rex.jpg",
		},
		Location: &source.RawLocation{
			Address: &source.RawAddress{
				City:       "Seattle",
				State:      "WA",
				PostalCode: "98101",
			},
			Geo: &source.RawGeo{Latitude: &lat, Longitude: &lon},
		},
		Source:        "petfinder",
		SearchSpecies: "dog",
	}
}

// TestNormalize tests the raw-to-canonical mapping.
func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("full record maps every field", func(t *testing.T) {
		t.Parallel()

		pet := Normalize(fullRecord())
		if pet == nil {
			t.Fatal("Normalize() returned nil for a full record")
		}
		if pet.Source != "petfinder" {
			t.Errorf("Source = %q, want %q", pet.Source, "petfinder")
		}
		if pet.ExternalID != "12345" {
			t.Errorf("ExternalID = %q, want %q", pet.ExternalID, "12345")
		}
		if pet.Species != "dog" {
			t.Errorf("Species = %q, want %q", pet.Species, "dog")
		}
		if want := []string{"Labrador Retriever", "Poodle"}; !reflect.DeepEqual(pet.Breeds, want) {
			t.Errorf("Breeds = %v, want %v", pet.Breeds, want)
		}
		if !pet.Mixed {
			t.Error("Mixed = false, want true")
		}
		if pet.Age != model.AgeAdult {
			t.Errorf("Age = %q, want %q", pet.Age, model.AgeAdult)
		}
		if pet.Gender != model.GenderMale {
			t.Errorf("Gender = %q, want %q", pet.Gender, model.GenderMale)
		}
		if pet.Size != model.SizeLarge {
			t.Errorf("Size = %q, want %q", pet.Size, model.SizeLarge)
		}
		if pet.City != "Seattle" || pet.State != "WA" || pet.PostalCode != "98101" {
			t.Errorf("location = %q/%q/%q, want Seattle/WA/98101", pet.City, pet.State, pet.PostalCode)
		}
		if pet.Latitude == nil || *pet.Latitude != 47.6062 {
			t.Errorf("Latitude = %v, want 47.6062", pet.Latitude)
		}
		if !pet.FirstSeen.IsZero() || !pet.LastSeen.IsZero() {
			t.Error("timestamps must be zero; the store assigns them at commit")
		}
	})

	t.Run("record without id or url is dropped", func(t *testing.T) {
		t.Parallel()

		rec := source.RawRecord{Animal: source.RawAnimal{Name: "Ghost"}}
		if pet := Normalize(rec); pet != nil {
			t.Errorf("Normalize() = %+v, want nil", pet)
		}
	})

	t.Run("missing id falls back to url slug", func(t *testing.T) {
		t.Parallel()

		rec := source.RawRecord{
			Animal: source.RawAnimal{
				Name: "Whiskers",
				URL:  "https://example.com/cat/whiskers-98765/",
			},
		}
		pet := Normalize(rec)
		if pet == nil {
			t.Fatal("Normalize() returned nil")
		}
		if pet.ExternalID != "whiskers-98765" {
			t.Errorf("ExternalID = %q, want %q", pet.ExternalID, "whiskers-98765")
		}
	})

	t.Run("sharing link stands in for missing listing url", func(t *testing.T) {
		t.Parallel()

		rec := source.RawRecord{
			Animal: source.RawAnimal{
				SocialSharing: &source.RawSocialSharing{
					EmailURL: "https://example.com/cat/mittens-555/",
				},
			},
		}
		pet := Normalize(rec)
		if pet == nil {
			t.Fatal("Normalize() returned nil")
		}
		if pet.ExternalID != "mittens-555" {
			t.Errorf("ExternalID = %q, want %q", pet.ExternalID, "mittens-555")
		}
		if pet.ListingURL != "https://example.com/cat/mittens-555/" {
			t.Errorf("ListingURL = %q", pet.ListingURL)
		}
	})

	t.Run("missing fields degrade to defaults", func(t *testing.T) {
		t.Parallel()

		rec := source.RawRecord{
			Animal: source.RawAnimal{ID: json.Number("7")},
		}
		pet := Normalize(rec)
		if pet == nil {
			t.Fatal("Normalize() returned nil")
		}
		if pet.Species != "unknown" {
			t.Errorf("Species = %q, want %q", pet.Species, "unknown")
		}
		if pet.Age != model.AgeUnknown || pet.Gender != model.GenderUnknown || pet.Size != model.SizeUnknown {
			t.Errorf("enums = %q/%q/%q, want unknown for all", pet.Age, pet.Gender, pet.Size)
		}
		if len(pet.Breeds) != 0 {
			t.Errorf("Breeds = %v, want empty", pet.Breeds)
		}
	})

	t.Run("search species backfills missing type", func(t *testing.T) {
		t.Parallel()

		rec := source.RawRecord{
			Animal:        source.RawAnimal{ID: json.Number("8")},
			SearchSpecies: "rabbit",
		}
		pet := Normalize(rec)
		if pet == nil {
			t.Fatal("Normalize() returned nil")
		}
		if pet.Species != "rabbit" {
			t.Errorf("Species = %q, want %q", pet.Species, "rabbit")
		}
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		t.Parallel()

		a := Normalize(fullRecord())
		b := Normalize(fullRecord())
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Normalize() not deterministic:\n%+v\n%+v", a, b)
		}
	})
}

// TestNormalizeAll tests batch mapping and skip behavior.
func TestNormalizeAll(t *testing.T) {
	t.Parallel()

	records := []source.RawRecord{
		fullRecord(),
		{Animal: source.RawAnimal{Name: "No Identity"}},
		{Animal: source.RawAnimal{ID: json.Number("99"), Name: "Luna"}},
	}

	pets := NormalizeAll(records)
	if len(pets) != 2 {
		t.Fatalf("got %d pets, want 2", len(pets))
	}
	if pets[0].ExternalID != "12345" || pets[1].ExternalID != "99" {
		t.Errorf("order not preserved: %q, %q", pets[0].ExternalID, pets[1].ExternalID)
	}
}

// TestStripHTML tests description cleanup.
func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text passes through", input: "  A good dog. ", want: "A good dog."},
		{name: "empty", input: "", want: ""},
		{
			name:  "markup is stripped",
			input: "<p>Meet <b>Rex</b>!</p><p>He loves walks.</p>",
			want:  "Meet Rex! He loves walks.",
		},
		{
			name:  "entities are decoded",
			input: "<div>Tom &amp; Jerry</div>",
			want:  "Tom & Jerry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := StripHTML(tt.input); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
