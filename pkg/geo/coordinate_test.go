package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateRadians(t *testing.T) {
	lat, lon := Coordinate{Lat: 180, Lon: -90}.Radians()
	assert.InDelta(t, math.Pi, lat, 1e-12)
	assert.InDelta(t, -math.Pi/2, lon, 1e-12)
}

func TestDistanceMatchesHaversine(t *testing.T) {
	a := Coordinate{Lat: 55.611087, Lon: 37.20829}
	b := Coordinate{Lat: 55.595884, Lon: 37.209755}
	assert.Equal(t, Haversine(a.Lat, a.Lon, b.Lat, b.Lon), Distance(a, b))
}

// destination returns the point reached by travelling dist meters from c on
// the given initial bearing in degrees.
func destination(c Coordinate, bearing, dist float64) Coordinate {
	lat1, lon1 := c.Radians()
	ang := dist / earthRadiusMeters
	theta := ToRadians(bearing)
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ang) + math.Cos(lat1)*math.Sin(ang)*math.Cos(theta))
	lon2 := lon1 + math.Atan2(math.Sin(theta)*math.Sin(ang)*math.Cos(lat1), math.Cos(ang)-math.Sin(lat1)*math.Sin(lat2))
	lon := math.Mod(lon2*180/math.Pi+540, 360) - 180
	return Coordinate{Lat: lat2 * 180 / math.Pi, Lon: lon}
}

func inAnyBox(boxes []Box, p Coordinate) bool {
	for _, b := range boxes {
		if p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon {
			return true
		}
	}
	return false
}

func TestBoundingBoxes(t *testing.T) {
	center := Coordinate{Lat: 55.6, Lon: 37.2}
	boxes := BoundingBoxes(center, 1000)
	require.Len(t, boxes, 1)
	box := boxes[0]

	assert.Less(t, box.MinLat, center.Lat)
	assert.Greater(t, box.MaxLat, center.Lat)
	assert.Less(t, box.MinLon, center.Lon)
	assert.Greater(t, box.MaxLon, center.Lon)

	assert.InDelta(t, 1000, Distance(center, Coordinate{Lat: box.MaxLat, Lon: center.Lon}), 1)
	assert.GreaterOrEqual(t, Distance(center, Coordinate{Lat: center.Lat, Lon: box.MaxLon}), 999.0)
	assert.Less(t, box.MaxLat, center.Lat+0.1)
}

func TestBoundingBoxesCoverCircle(t *testing.T) {
	tests := []struct {
		name   string
		center Coordinate
		radius float64
	}{
		{"mid latitude", Coordinate{Lat: 55.6, Lon: 37.2}, 1000},
		{"high latitude wide radius", Coordinate{Lat: 80, Lon: 0}, 500_000},
		{"southern high latitude", Coordinate{Lat: -72, Lon: 100}, 300_000},
		{"east of antimeridian", Coordinate{Lat: 0, Lon: 179.999}, 1000},
		{"west of antimeridian", Coordinate{Lat: -40, Lon: -179.5}, 200_000},
		{"near pole", Coordinate{Lat: 89.9, Lon: 10}, 50_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boxes := BoundingBoxes(tt.center, tt.radius)
			for bearing := 0.0; bearing < 360; bearing += 2.5 {
				p := destination(tt.center, bearing, tt.radius*0.999)
				require.Less(t, Distance(tt.center, p), tt.radius)
				assert.True(t, inAnyBox(boxes, p), "bearing %v point %+v outside %+v", bearing, p, boxes)
			}
		})
	}
}

func TestBoundingBoxesHighLatitude(t *testing.T) {
	center := Coordinate{Lat: 80, Lon: 0}
	stop := Coordinate{Lat: 81.06, Lon: 26.44}
	require.Less(t, Distance(center, stop), 500_000.0)

	boxes := BoundingBoxes(center, 500_000)
	require.Len(t, boxes, 1)
	assert.Greater(t, boxes[0].MaxLon, stop.Lon)
	assert.Less(t, boxes[0].MinLon, -stop.Lon)
}

func TestBoundingBoxesAntimeridian(t *testing.T) {
	boxes := BoundingBoxes(Coordinate{Lat: 0, Lon: 179.999}, 1000)
	require.Len(t, boxes, 2)

	assert.Less(t, boxes[0].MinLon, 179.999)
	assert.Equal(t, 180.0, boxes[0].MaxLon)
	assert.Equal(t, -180.0, boxes[1].MinLon)
	assert.Greater(t, boxes[1].MaxLon, -179.999)
	assert.True(t, inAnyBox(boxes, Coordinate{Lat: 0, Lon: -179.999}))

	west := BoundingBoxes(Coordinate{Lat: 0, Lon: -179.999}, 1000)
	require.Len(t, west, 2)
	assert.Equal(t, 180.0, west[0].MaxLon)
	assert.Equal(t, -180.0, west[1].MinLon)
	assert.True(t, inAnyBox(west, Coordinate{Lat: 0, Lon: 179.999}))
}

func TestBoundingBoxesNearPole(t *testing.T) {
	boxes := BoundingBoxes(Coordinate{Lat: 90, Lon: 0}, 5000)
	require.Len(t, boxes, 1)
	assert.Equal(t, -180.0, boxes[0].MinLon)
	assert.Equal(t, 180.0, boxes[0].MaxLon)
	assert.Equal(t, 90.0, boxes[0].MaxLat)
}
