package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceIdentity(t *testing.T) {
	c := Coordinate{Lat: 40.7128, Long: -74.0060}
	assert.Zero(t, Distance(c, c))
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][2]Coordinate{
		{{Lat: 40.7128, Long: -74.0060}, {Lat: 40.7180, Long: -74.0000}},
		{{Lat: 0, Long: 0}, {Lat: -33.8688, Long: 151.2093}},
		{{Lat: 51.5074, Long: -0.1278}, {Lat: 48.8566, Long: 2.3522}},
	}
	for _, p := range pairs {
		assert.InDelta(t, Distance(p[0], p[1]), Distance(p[1], p[0]), 1e-9)
	}
}

func TestDistanceKnownValues(t *testing.T) {
	// London to Paris, roughly 343 km.
	london := Coordinate{Lat: 51.5074, Long: -0.1278}
	paris := Coordinate{Lat: 48.8566, Long: 2.3522}
	assert.InDelta(t, 343.5, Distance(london, paris), 2.0)

	// Two points in lower Manhattan are well under a kilometer apart.
	a := Coordinate{Lat: 40.7128, Long: -74.0060}
	b := Coordinate{Lat: 40.7180, Long: -74.0000}
	d := Distance(a, b)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 1.0)
}

func TestDistanceNeverNegative(t *testing.T) {
	coords := []Coordinate{
		{Lat: 90, Long: 0}, {Lat: -90, Long: 0},
		{Lat: 0, Long: 180}, {Lat: 0, Long: -180},
		{Lat: 40.7128, Long: -74.0060},
	}
	for _, a := range coords {
		for _, b := range coords {
			assert.GreaterOrEqual(t, Distance(a, b), 0.0)
		}
	}
}
