package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/roach88/atomstore/internal/schema"
)

// writeProjection prints p as sorted "key: value" lines. Nested
// projections are indented under their key.
func writeProjection(w io.Writer, p map[string]any, indent string) {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		switch v := p[k].(type) {
		case schema.Projection:
			fmt.Fprintf(w, "%s%s:\n", indent, k)
			writeProjection(w, v, indent+"  ")
		case map[string]any:
			fmt.Fprintf(w, "%s%s:\n", indent, k)
			writeProjection(w, v, indent+"  ")
		default:
			fmt.Fprintf(w, "%s%s: %v\n", indent, k, v)
		}
	}
}

// writeProjections prints each projection separated by a blank line.
func writeProjections(w io.Writer, ps []schema.Projection) {
	for i, p := range ps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeProjection(w, p, "")
	}
}

// writeCoordinates prints one numbered line per checkpoint.
func writeCoordinates(w io.Writer, place string, coords []schema.Coordinate) {
	fmt.Fprintf(w, "%s: %d checkpoint(s)\n", place, len(coords))
	for _, c := range coords {
		fmt.Fprintf(w, "  %d. %s (%g, %g)\n", c.Checkpoint, c.Name, c.Latitude, c.Longitude)
	}
}

// plural returns "1 vehicle" or "2 vehicles".
func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
