package geo

import (
	"math"
	"testing"
)

// TestMiles tests the haversine distance against known city pairs.
func TestMiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: 47.6062, lon1: -122.3321,
			lat2: 47.6062, lon2: -122.3321,
			want: 0, tolerance: 0.001,
		},
		{
			name: "seattle to portland",
			lat1: 47.6062, lon1: -122.3321,
			lat2: 45.5152, lon2: -122.6784,
			want: 145, tolerance: 5,
		},
		{
			name: "new york to los angeles",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 34.0522, lon2: -118.2437,
			want: 2445, tolerance: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Miles(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Miles() = %.1f, want %.1f +/- %.1f", got, tt.want, tt.tolerance)
			}
		})
	}
}

// TestMilesSymmetry tests that distance is direction-independent.
func TestMilesSymmetry(t *testing.T) {
	t.Parallel()

	a := Miles(47.6062, -122.3321, 34.0522, -118.2437)
	b := Miles(34.0522, -118.2437, 47.6062, -122.3321)
	if math.Abs(a-b) > 0.0001 {
		t.Errorf("Miles() not symmetric: %f vs %f", a, b)
	}
}

// TestLookup tests the city coordinate table.
func TestLookup(t *testing.T) {
	t.Parallel()

	t.Run("known city", func(t *testing.T) {
		t.Parallel()

		lat, lon, ok := Lookup("Seattle", "WA")
		if !ok {
			t.Fatal("Lookup(Seattle, WA) not found")
		}
		if lat != 47.6062 || lon != -122.3321 {
			t.Errorf("coordinates = %f, %f; want 47.6062, -122.3321", lat, lon)
		}
	})

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		t.Parallel()

		if _, _, ok := Lookup("  sEaTtLe ", " wa "); !ok {
			t.Error("Lookup should normalize case and whitespace")
		}
	})

	t.Run("unknown city misses", func(t *testing.T) {
		t.Parallel()

		if _, _, ok := Lookup("Nowhere", "KS"); ok {
			t.Error("Lookup(Nowhere, KS) = ok, want miss")
		}
	})
}
