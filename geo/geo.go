package geo

import (
	"math"
)

type Line []Pos

func (l Line) Length() float64 {
	var total float64
	for i, pos := range l {
		if i == 0 {
			continue
		}
		total += l[i-1].Distance(pos)
	}
	return total
}

// Start is the first Pos in the line
func (l Line) Start() Pos {
	return l[0]
}

// End is the last Pos in the line
func (l Line) End() Pos {
	return l[len(l)-1]
}

// Closed returns the line with the start appended if the endpoints differ
// by more than tolerance in either axis, so the result can be used as a
// polygon ring. Lines that already loop are returned unchanged.
func (l Line) Closed(tolerance float64) Line {
	if len(l) == 0 {
		return l
	}
	first, last := l.Start(), l.End()
	if math.Abs(first.Lon-last.Lon) <= tolerance && math.Abs(first.Lat-last.Lat) <= tolerance {
		return l
	}
	out := make(Line, len(l), len(l)+1)
	copy(out, l)
	return append(out, first)
}

type Pos struct {
	Lat, Lon, Ele float64
}

// distance in km to another location (only considering lat and lon)
func (p1 Pos) Distance(p2 Pos) float64 {
	const PI float64 = 3.141592653589793

	radlat1 := float64(PI * p1.Lat / 180)
	radlat2 := float64(PI * p2.Lat / 180)

	theta := float64(p1.Lon - p2.Lon)
	radtheta := float64(PI * theta / 180)

	dist := math.Sin(radlat1)*math.Sin(radlat2) + math.Cos(radlat1)*math.Cos(radlat2)*math.Cos(radtheta)

	if dist > 1 {
		dist = 1
	}

	dist = math.Acos(dist)
	dist = dist * 180 / PI
	dist = dist * 60 * 1.1515

	dist = dist * 1.609344

	return dist
}
