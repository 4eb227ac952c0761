package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/petscan/petscan/internal/model"
)

// dimensionTitles maps dimensions to their render headings.
var dimensionTitles = map[model.Dimension]string{
	model.DimensionSpecies: "Species",
	model.DimensionBreed:   "Breed",
	model.DimensionSize:    "Size",
	model.DimensionGender:  "Gender",
	model.DimensionAge:     "Age",
}

// WriteText renders the snapshot as plain text for terminal output.
func WriteText(w io.Writer, s model.StatisticsSnapshot) error {
	if _, err := fmt.Fprintf(w, "Total pets: %d\n", s.Total); err != nil {
		return err
	}
	for _, dim := range model.Dimensions {
		counts := s.ByDimension(dim)
		if len(counts) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\n%s:\n", dimensionTitles[dim]); err != nil {
			return err
		}
		for _, key := range sortedKeys(counts) {
			if _, err := fmt.Fprintf(w, "  %-24s %d\n", key, counts[key]); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON renders the snapshot as indented JSON.
func WriteJSON(w io.Writer, s model.StatisticsSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteMarkdown renders the snapshot as GitHub-flavored Markdown with one
// table per non-empty dimension.
func WriteMarkdown(w io.Writer, s model.StatisticsSnapshot) error {
	md := markdown.NewMarkdown(w)

	md.H1("Pet Store Statistics")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Total pets", strconv.Itoa(s.Total)},
		},
	})
	md.PlainText("")

	for _, dim := range model.Dimensions {
		counts := s.ByDimension(dim)
		if len(counts) == 0 {
			continue
		}
		md.H2("By " + dimensionTitles[dim])
		md.PlainText("")

		rows := make([][]string, 0, len(counts))
		for _, key := range sortedKeys(counts) {
			rows = append(rows, []string{key, strconv.Itoa(counts[key])})
		}
		md.Table(markdown.TableSet{
			Header: []string{dimensionTitles[dim], "Count"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	return md.Build()
}

// sortedKeys orders breakdown keys by descending count, ties broken
// alphabetically, so the biggest buckets render first.
func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
