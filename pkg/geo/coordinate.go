package geo

import "math"

// Coordinate is a WGS84 position in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Radians returns the latitude and longitude converted to radians.
func (c Coordinate) Radians() (lat, lon float64) {
	return ToRadians(c.Lat), ToRadians(c.Lon)
}

// ToRadians converts degrees to radians.
func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b Coordinate) float64 {
	lat1, lon1 := a.Radians()
	lat2, lon2 := b.Radians()
	return haversineRad(lat1, lon1, lat2, lon2)
}

// Box is a lat/lon rectangle in degrees.
type Box struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// BoundingBoxes returns the lat/lon boxes that together contain every point
// within radiusMeters of c. A circle crossing the antimeridian is split into
// two boxes, one on each side. A circle reaching a pole spans every longitude.
func BoundingBoxes(c Coordinate, radiusMeters float64) []Box {
	ang := radiusMeters / earthRadiusMeters
	dLat := radiusMeters / metersPerDegreeLat
	minLat, maxLat := c.Lat-dLat, c.Lat+dLat

	latRad := ToRadians(c.Lat)
	if minLat <= -90 || maxLat >= 90 || math.Sin(ang) >= math.Cos(latRad) {
		return []Box{{
			MinLat: math.Max(-90, minLat),
			MaxLat: math.Min(90, maxLat),
			MinLon: -180,
			MaxLon: 180,
		}}
	}

	dLon := math.Asin(math.Sin(ang)/math.Cos(latRad)) * 180 / math.Pi
	minLon, maxLon := c.Lon-dLon, c.Lon+dLon
	switch {
	case minLon < -180:
		return []Box{
			{MinLat: minLat, MinLon: minLon + 360, MaxLat: maxLat, MaxLon: 180},
			{MinLat: minLat, MinLon: -180, MaxLat: maxLat, MaxLon: maxLon},
		}
	case maxLon > 180:
		return []Box{
			{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: 180},
			{MinLat: minLat, MinLon: -180, MaxLat: maxLat, MaxLon: maxLon - 360},
		}
	}
	return []Box{{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}}
}
