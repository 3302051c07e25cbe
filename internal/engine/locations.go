package engine

import (
	"context"
	"strings"

	"github.com/roach88/atomstore/internal/atom"
	"github.com/roach88/atomstore/internal/queryir"
	"github.com/roach88/atomstore/internal/querymatch"
	"github.com/roach88/atomstore/internal/schema"
	"github.com/roach88/atomstore/internal/store"
)

// Relations used by the two-fact coordinate form:
//
//	(Baga isTouristPlace Goa)
//	(Baga hasLogLat (15.55 73.75))
const (
	RelTouristPlace = "isTouristPlace"
	RelLogLat       = "hasLogLat"
)

// LocationDetails returns the cost breakdown of place: the first record
// keyed by place whose second child is not a list, projected with the
// location_detail schema. The result always carries "place".
func (e *Engine) LocationDetails(ctx context.Context, place string) (schema.Projection, bool, error) {
	place = strings.TrimSpace(place)
	c := e.begin("location_details", "place", place)

	if err := requireFields(field{"place", place}); err != nil {
		return nil, false, c.end(err)
	}

	m := querymatch.MustCompile(queryir.AllOf(
		queryir.Key(place),
		queryir.Not{P: queryir.ChildIsList{Index: 1}},
	))
	rec, ok, err := e.stores.Locations.FindFirst(ctx, store.Predicate(m))
	if err != nil {
		return nil, false, c.end(err)
	}
	if !ok {
		c.found(false)
		return nil, false, nil
	}

	sc, _ := e.schemas.Get(schema.LocationDetail)
	p := schema.Project(rec.Tail(), sc)
	p["place"] = schema.Normalize(rec.Head())

	c.found(true)
	return p, true, nil
}

// LocationCoords returns the tourist spots of place, numbered from 1 in
// file order. Two record forms contribute:
//
//	(Goa (spot Baga "has log lat" (15.55 73.75)) ...)
//	(Baga isTouristPlace Goa) with (Baga hasLogLat (15.55 73.75))
//
// Entries without a valid (lat lon) pair are skipped. A spot fact uses the
// first hasLogLat record of that spot. No matches is an empty slice.
func (e *Engine) LocationCoords(ctx context.Context, place string) ([]schema.Coordinate, error) {
	place = strings.TrimSpace(place)
	c := e.begin("location_coords", "place", place)

	if err := requireFields(field{"place", place}); err != nil {
		return nil, c.end(err)
	}

	entryRecord := querymatch.MustCompile(queryir.AllOf(
		queryir.Key(place),
		queryir.ChildIsList{Index: 1},
	))
	spotFact := querymatch.MustCompile(queryir.AllOf(
		queryir.MinChildren{N: 3},
		queryir.ChildEquals{Index: 1, Value: RelTouristPlace},
		queryir.ChildEquals{Index: 2, Value: place},
	))
	logLatFact := querymatch.MustCompile(queryir.AllOf(
		queryir.MinChildren{N: 3},
		queryir.ChildEquals{Index: 1, Value: RelLogLat},
		queryir.ChildIsList{Index: 2},
	))

	// pending holds coordinates in file order; spot facts are resolved after
	// the scan because hasLogLat may come later in the file.
	type pendingEntry struct {
		coord  schema.Coordinate
		spot   string
		isSpot bool
	}
	var pending []pendingEntry
	logLat := map[string]atom.Atom{}

	for rec, err := range e.stores.Locations.Scan(ctx) {
		if err != nil {
			return nil, c.end(err)
		}
		switch {
		case entryRecord(rec):
			for _, coord := range schema.ProjectCoordinates(rec.Tail()) {
				pending = append(pending, pendingEntry{coord: coord})
			}
		case spotFact(rec):
			pending = append(pending, pendingEntry{spot: schema.Normalize(rec.Head()), isSpot: true})
		case logLatFact(rec):
			spot := schema.Normalize(rec.Head())
			if _, seen := logLat[spot]; !seen {
				logLat[spot] = rec[2]
			}
		}
	}

	out := []schema.Coordinate{}
	for _, p := range pending {
		coord := p.coord
		if p.isSpot {
			lat, lon, ok := schema.LatLon(logLat[p.spot])
			if !ok {
				c.log.Debug("spot without coordinates", "spot", p.spot)
				continue
			}
			coord = schema.Coordinate{Name: p.spot, Latitude: lat, Longitude: lon}
		}
		coord.Checkpoint = len(out) + 1
		out = append(out, coord)
	}

	c.found(len(out) > 0)
	return out, nil
}
