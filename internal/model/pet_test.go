package model

import "testing"

// TestParseAgeCategory tests raw age value normalization.
func TestParseAgeCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  AgeCategory
	}{
		{name: "baby", input: "baby", want: AgeBaby},
		{name: "puppy maps to baby", input: "Puppy", want: AgeBaby},
		{name: "kitten maps to baby", input: "kitten", want: AgeBaby},
		{name: "young", input: "Young", want: AgeYoung},
		{name: "adult with whitespace", input: "  adult ", want: AgeAdult},
		{name: "senior", input: "senior", want: AgeSenior},
		{name: "empty", input: "", want: AgeUnknown},
		{name: "garbage", input: "seventeen", want: AgeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ParseAgeCategory(tt.input); got != tt.want {
				t.Errorf("ParseAgeCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestParseGender tests raw sex value normalization.
func TestParseGender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Gender
	}{
		{name: "male", input: "Male", want: GenderMale},
		{name: "short male", input: "m", want: GenderMale},
		{name: "female", input: "female", want: GenderFemale},
		{name: "short female", input: "F", want: GenderFemale},
		{name: "empty", input: "", want: GenderUnknown},
		{name: "garbage", input: "yes", want: GenderUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ParseGender(tt.input); got != tt.want {
				t.Errorf("ParseGender(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestParseSize tests raw size value normalization, including the
// source's several spellings for extra-large.
func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Size
	}{
		{name: "small", input: "Small", want: SizeSmall},
		{name: "medium", input: "medium", want: SizeMedium},
		{name: "large", input: "LARGE", want: SizeLarge},
		{name: "xlarge", input: "xlarge", want: SizeXLarge},
		{name: "extra_large", input: "extra_large", want: SizeXLarge},
		{name: "x-large", input: "X-Large", want: SizeXLarge},
		{name: "xl", input: "xl", want: SizeXLarge},
		{name: "empty", input: "", want: SizeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ParseSize(tt.input); got != tt.want {
				t.Errorf("ParseSize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestPetKey tests the dedup key format.
func TestPetKey(t *testing.T) {
	t.Parallel()

	p := Pet{Source: "petfinder", ExternalID: "12345"}
	if got, want := p.Key(), "petfinder/12345"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

// TestPetPrimaryBreed tests primary breed selection.
func TestPetPrimaryBreed(t *testing.T) {
	t.Parallel()

	t.Run("first breed wins", func(t *testing.T) {
		t.Parallel()

		p := Pet{Breeds: []string{"Labrador Retriever", "Poodle"}}
		if got := p.PrimaryBreed(); got != "Labrador Retriever" {
			t.Errorf("PrimaryBreed() = %q, want %q", got, "Labrador Retriever")
		}
	})

	t.Run("empty breed list", func(t *testing.T) {
		t.Parallel()

		p := Pet{}
		if got := p.PrimaryBreed(); got != "" {
			t.Errorf("PrimaryBreed() = %q, want empty", got)
		}
	})
}

// TestPetLocation tests display location formatting.
func TestPetLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		city  string
		state string
		want  string
	}{
		{name: "city and state", city: "Seattle", state: "WA", want: "Seattle, WA"},
		{name: "city only", city: "Seattle", state: "", want: "Seattle"},
		{name: "state only", city: "", state: "WA", want: "WA"},
		{name: "neither", city: "", state: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Pet{City: tt.city, State: tt.state}
			if got := p.Location(); got != tt.want {
				t.Errorf("Location() = %q, want %q", got, tt.want)
			}
		})
	}
}
