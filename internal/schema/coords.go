package schema

import (
	"strconv"

	"github.com/roach88/atomstore/internal/atom"
)

// Coordinate is one tourist spot of a place.
type Coordinate struct {
	Checkpoint int     `json:"checkpoint"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// ProjectCoordinate reads a coordinate entry of the form
//
//	(tag name label (lat lon))
//
// The entry needs at least four children and its fourth child must be a
// list of exactly two numbers; otherwise ok is false. Checkpoint is left
// zero for the caller to number.
func ProjectCoordinate(entry atom.Atom) (c Coordinate, ok bool) {
	l, isList := entry.(atom.List)
	if !isList || len(l) < 4 {
		return Coordinate{}, false
	}
	if _, nameIsList := l[1].(atom.List); nameIsList {
		return Coordinate{}, false
	}
	lat, lon, ok := LatLon(l[3])
	if !ok {
		return Coordinate{}, false
	}
	return Coordinate{
		Name:      Normalize(l[1]),
		Latitude:  lat,
		Longitude: lon,
	}, true
}

// ProjectCoordinates projects every valid entry and numbers the results
// from 1 in input order. Invalid entries are skipped.
func ProjectCoordinates(entries []atom.Atom) []Coordinate {
	out := []Coordinate{}
	for _, e := range entries {
		c, ok := ProjectCoordinate(e)
		if !ok {
			continue
		}
		c.Checkpoint = len(out) + 1
		out = append(out, c)
	}
	return out
}

// LatLon parses a (lat lon) pair.
func LatLon(pair atom.Atom) (lat, lon float64, ok bool) {
	p, isList := pair.(atom.List)
	if !isList || len(p) != 2 {
		return 0, 0, false
	}
	lat, okLat := parseFloat(p[0])
	lon, okLon := parseFloat(p[1])
	if !okLat || !okLon {
		return 0, 0, false
	}
	return lat, lon, true
}

func parseFloat(a atom.Atom) (float64, bool) {
	if _, isList := a.(atom.List); isList {
		return 0, false
	}
	text := Normalize(a)
	if !atom.IsNumeric(text) {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	return f, err == nil
}
