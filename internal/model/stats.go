package model

// Dimension names a categorical axis of the stored record set that the
// statistics aggregator can break down.
type Dimension string

const (
	// DimensionSpecies groups records by animal type.
	DimensionSpecies Dimension = "species"

	// DimensionBreed groups records by primary breed. Multi-breed pets
	// count once, under their first breed.
	DimensionBreed Dimension = "breed"

	// DimensionSize groups records by size bracket.
	DimensionSize Dimension = "size"

	// DimensionGender groups records by sex.
	DimensionGender Dimension = "gender"

	// DimensionAge groups records by age bracket.
	DimensionAge Dimension = "age"
)

// Dimensions lists every breakdown axis in render order.
var Dimensions = []Dimension{
	DimensionSpecies,
	DimensionBreed,
	DimensionSize,
	DimensionGender,
	DimensionAge,
}

// StatisticsSnapshot is a point-in-time aggregate over the stored Pet set.
// It is computed fresh on every request and never persisted, so each write
// to the store is visible in the next snapshot.
//
// Invariant: the counts in every dimension map sum to Total, because each
// record lands in exactly one bucket per dimension (absent values bucket
// under "unknown").
type StatisticsSnapshot struct {
	// Total is the number of stored records.
	Total int `json:"total"`

	// Species maps animal type to count.
	Species map[string]int `json:"species"`

	// Breed maps primary breed to count.
	Breed map[string]int `json:"breed"`

	// Size maps size bracket to count.
	Size map[string]int `json:"size"`

	// Gender maps sex to count.
	Gender map[string]int `json:"gender"`

	// Age maps age bracket to count.
	Age map[string]int `json:"age"`
}

// NewStatisticsSnapshot returns an empty snapshot with every dimension map
// initialized. An empty store yields this zero snapshot, not an error.
func NewStatisticsSnapshot() StatisticsSnapshot {
	return StatisticsSnapshot{
		Species: make(map[string]int),
		Breed:   make(map[string]int),
		Size:    make(map[string]int),
		Gender:  make(map[string]int),
		Age:     make(map[string]int),
	}
}

// ByDimension returns the breakdown map for the given dimension, or nil
// for an unknown dimension.
func (s StatisticsSnapshot) ByDimension(d Dimension) map[string]int {
	switch d {
	case DimensionSpecies:
		return s.Species
	case DimensionBreed:
		return s.Breed
	case DimensionSize:
		return s.Size
	case DimensionGender:
		return s.Gender
	case DimensionAge:
		return s.Age
	default:
		return nil
	}
}
