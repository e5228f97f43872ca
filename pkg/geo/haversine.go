package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// metersPerDegreeLat is the length of one degree of latitude on the sphere.
const metersPerDegreeLat = math.Pi / 180 * earthRadiusMeters

// Haversine returns the great-circle distance in meters between two points
// given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	return haversineRad(ToRadians(lat1), ToRadians(lon1), ToRadians(lat2), ToRadians(lon2))
}

func haversineRad(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat2 - lat1
	dLon := lon2 - lon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
