package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dave/mapmerge/geo"
	"github.com/dave/mapmerge/route"
)

func TestBuildPlacemark(t *testing.T) {
	r := route.Route{
		ID:     "run/Lap 1",
		Name:   "Lap 1",
		Source: "/takeout/run.kmz",
		Line:   geo.Line{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}},
	}

	p := buildPlacemark(r, DefaultStyle)

	assert.Equal(t, "Lap 1", p.Name)
	assert.Equal(t, 1, p.Visibility)
	require.NotNil(t, p.Polygon)
	assert.Nil(t, p.LineString)

	// The open line was closed to form the ring.
	ring := p.Polygon.Ring()
	require.Len(t, ring, 3)
	assert.Equal(t, ring[0], ring[2])

	require.NotNil(t, p.Style)
	require.NotNil(t, p.Style.LineStyle)
	assert.Equal(t, "ffb469ff", p.Style.LineStyle.Color)
	assert.Equal(t, 2.0, p.Style.LineStyle.Width)

	require.NotNil(t, p.Style.PolyStyle)
	assert.Equal(t, "64b469ff", p.Style.PolyStyle.Color)
	assert.Equal(t, 1, p.Style.PolyStyle.Fill)

	assert.Contains(t, p.Description, "from run.kmz")
}

func TestBuildPlacemarkDeterministic(t *testing.T) {
	r := route.Route{
		ID:   "a/1",
		Name: "a",
		Line: geo.Line{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}},
	}
	assert.Equal(t, buildPlacemark(r, DefaultStyle), buildPlacemark(r, DefaultStyle))
}

func TestBuildPlacemarkCustomStyle(t *testing.T) {
	s := Style{LineColor: "ff0000ff", FillAlpha: 255, LineWidth: 5}
	r := route.Route{ID: "a/1", Name: "a", Line: geo.Line{{Lat: 1, Lon: 1}}}

	p := buildPlacemark(r, s)
	assert.Equal(t, "ff0000ff", p.Style.LineStyle.Color)
	assert.Equal(t, "ff0000ff", p.Style.PolyStyle.Color)
	assert.Equal(t, 5.0, p.Style.LineStyle.Width)
}

func TestWithAlpha(t *testing.T) {
	assert.Equal(t, "64b469ff", withAlpha("ffb469ff", 100))
	assert.Equal(t, "00b469ff", withAlpha("ffb469ff", 0))
	assert.Equal(t, "ffb469ff", withAlpha("ffb469ff", 255))
	// Unexpected color formats pass through untouched.
	assert.Equal(t, "abc", withAlpha("abc", 100))
}

func TestPlacemarkDescription(t *testing.T) {
	r := route.Route{
		Desc:   "Nice walk",
		Source: "/takeout/walk.kmz",
		Line:   geo.Line{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 0}},
	}
	d := placemarkDescription(r)
	assert.Contains(t, d, "Nice walk")
	assert.Contains(t, d, "km")
	assert.Contains(t, d, "from walk.kmz")
}
