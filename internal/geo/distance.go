package geo

import (
	"math"
	"strings"
)

// earthRadiusMiles is the mean Earth radius used by the haversine formula.
const earthRadiusMiles = 3959.0

// Miles returns the great-circle distance in miles between two points.
func Miles(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

// cityCoordinates holds coordinates for cities commonly searched.
// Lookup is best-effort: a miss disables radius post-filtering for that
// search rather than failing it.
var cityCoordinates = map[string][2]float64{
	"seattle|WA":        {47.6062, -122.3321},
	"portland|OR":       {45.5152, -122.6784},
	"san francisco|CA":  {37.7749, -122.4194},
	"los angeles|CA":    {34.0522, -118.2437},
	"san diego|CA":      {32.7157, -117.1611},
	"phoenix|AZ":        {33.4484, -112.0740},
	"denver|CO":         {39.7392, -104.9903},
	"dallas|TX":         {32.7767, -96.7970},
	"houston|TX":        {29.7604, -95.3698},
	"austin|TX":         {30.2672, -97.7431},
	"chicago|IL":        {41.8781, -87.6298},
	"minneapolis|MN":    {44.9778, -93.2650},
	"st louis|MO":       {38.6270, -90.1994},
	"atlanta|GA":        {33.7490, -84.3880},
	"miami|FL":          {25.7617, -80.1918},
	"orlando|FL":        {28.5383, -81.3792},
	"charlotte|NC":      {35.2271, -80.8431},
	"washington|DC":     {38.9072, -77.0369},
	"philadelphia|PA":   {39.9526, -75.1652},
	"new york|NY":       {40.7128, -74.0060},
	"boston|MA":         {42.3601, -71.0589},
	"detroit|MI":        {42.3314, -83.0458},
	"nashville|TN":      {36.1627, -86.7816},
	"las vegas|NV":      {36.1699, -115.1398},
	"salt lake city|UT": {40.7608, -111.8910},
}

// Lookup returns the coordinates for a city/state pair, with ok=false for
// cities outside the table.
func Lookup(city, state string) (lat, lon float64, ok bool) {
	key := strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToUpper(strings.TrimSpace(state))
	coords, ok := cityCoordinates[key]
	if !ok {
		return 0, 0, false
	}
	return coords[0], coords[1], true
}
