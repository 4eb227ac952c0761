package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/petscan/petscan/internal/model"
)

// Header lists the CSV columns in canonical schema order. The breed list
// is joined with breedSeparator; timestamps are RFC3339.
var Header = []string{
	"source",
	"external_id",
	"name",
	"species",
	"breeds",
	"mixed",
	"color",
	"age",
	"gender",
	"size",
	"city",
	"state",
	"postal_code",
	"latitude",
	"longitude",
	"photo_url",
	"listing_url",
	"description",
	"first_seen",
	"last_seen",
}

// breedSeparator joins the ordered breed list into one CSV field. A pipe
// never appears in source breed names, so the join is reversible.
const breedSeparator = "|"

// Write streams the pets as CSV: header row first, then one row per pet.
func Write(w io.Writer, pets []model.Pet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range pets {
		if err := cw.Write(Row(&pets[i])); err != nil {
			return fmt.Errorf("write csv row for %s: %w", pets[i].Key(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Row serializes one pet into a CSV record matching Header.
func Row(p *model.Pet) []string {
	return []string{
		p.Source,
		p.ExternalID,
		p.Name,
		p.Species,
		strings.Join(p.Breeds, breedSeparator),
		strconv.FormatBool(p.Mixed),
		p.Color,
		string(p.Age),
		string(p.Gender),
		string(p.Size),
		p.City,
		p.State,
		p.PostalCode,
		formatCoord(p.Latitude),
		formatCoord(p.Longitude),
		p.PhotoURL,
		p.ListingURL,
		p.Description,
		formatTime(p.FirstSeen),
		formatTime(p.LastSeen),
	}
}

// ReadAll parses an exported CSV back into canonical pets. The header row
// is validated against Header; enum columns re-parse through the model's
// enum mapping so malformed values degrade to "unknown" exactly as they
// would during ingestion.
func ReadAll(r io.Reader) ([]model.Pet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected csv header: column %d is %q, want %q", i, header[i], col)
		}
	}

	var pets []model.Pet
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		pet, perr := parseRow(record)
		if perr != nil {
			return nil, perr
		}
		pets = append(pets, pet)
	}
	return pets, nil
}

// parseRow rebuilds one pet from a CSV record.
func parseRow(record []string) (model.Pet, error) {
	pet := model.Pet{
		Source:      record[0],
		ExternalID:  record[1],
		Name:        record[2],
		Species:     record[3],
		Mixed:       record[5] == "true",
		Color:       record[6],
		Age:         model.ParseAgeCategory(record[7]),
		Gender:      model.ParseGender(record[8]),
		Size:        model.ParseSize(record[9]),
		City:        record[10],
		State:       record[11],
		PostalCode:  record[12],
		PhotoURL:    record[15],
		ListingURL:  record[16],
		Description: record[17],
	}
	if pet.ExternalID == "" {
		return model.Pet{}, fmt.Errorf("csv row is missing external_id")
	}
	if record[4] != "" {
		pet.Breeds = strings.Split(record[4], breedSeparator)
	}

	var err error
	if pet.Latitude, err = parseCoord(record[13]); err != nil {
		return model.Pet{}, fmt.Errorf("parse latitude: %w", err)
	}
	if pet.Longitude, err = parseCoord(record[14]); err != nil {
		return model.Pet{}, fmt.Errorf("parse longitude: %w", err)
	}
	if pet.FirstSeen, err = parseTime(record[18]); err != nil {
		return model.Pet{}, fmt.Errorf("parse first_seen: %w", err)
	}
	if pet.LastSeen, err = parseTime(record[19]); err != nil {
		return model.Pet{}, fmt.Errorf("parse last_seen: %w", err)
	}
	return pet, nil
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseCoord(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
