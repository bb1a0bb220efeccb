// Package palette hands out display colors for tracks.  It provides a
// fixed 12-entry sequential cycle (the ColorBrewer Paired scheme) for
// tracks that don't pick their own color, and a set of named two-color
// diverging palettes for signal tracks that pivot around zero.
package palette

import (
	"fmt"

	"github.com/antzucaro/matchr"
	"github.com/pkg/errors"
)

// RGB is one sequential palette entry.
type RGB struct {
	R, G, B uint8
}

// Opaque renders the color as a fully opaque CSS rgba() value.
func (c RGB) Opaque() string {
	return fmt.Sprintf("rgba(%d, %d, %d, 1)", c.R, c.G, c.B)
}

var sequential = [12]RGB{
	{166, 206, 227},
	{31, 120, 180},
	{178, 223, 138},
	{51, 160, 44},
	{251, 154, 153},
	{227, 26, 28},
	{253, 191, 111},
	{255, 127, 0},
	{202, 178, 214},
	{106, 61, 154},
	{255, 255, 153},
	{177, 89, 40},
}

// NumSequential is the cycle length of Allocator.NextSequential.
const NumSequential = len(sequential)

// Allocator assigns sequential colors for the duration of one run.  The
// cursor is shared across all tracks so that distinct tracks get distinct
// colors; after NumSequential assignments the cycle wraps and colors
// repeat.  Allocator is not safe for concurrent use.
type Allocator struct {
	cursor int
}

// NextSequential returns the next entry of the sequential cycle and
// advances the cursor.
func (a *Allocator) NextSequential() RGB {
	c := sequential[a.cursor%NumSequential]
	a.cursor++
	return c
}

// Diverging palettes, keyed by their ColorBrewer scheme name.  The first
// color is used for values above the pivot, the second for values below.
var diverging = map[string][2]string{
	"BrBg":     {"#543005", "#003c30"},
	"PiYg":     {"#8e0152", "#276419"},
	"PRGn":     {"#40004b", "#00441b"},
	"PuOr":     {"#7f3b08", "#2d004b"},
	"RdBu":     {"#67001f", "#053061"},
	"RdGy":     {"#67001f", "#1a1a1a"},
	"RdYlBu":   {"#a50026", "#313695"},
	"RdYlGn":   {"#a50026", "#006837"},
	"Spectral": {"#9e0142", "#5e4fa2"},
}

// Diverging looks up a named diverging palette, returning its positive
// and negative colors as hex strings.
func Diverging(name string) (pos, neg string, err error) {
	if c, ok := diverging[name]; ok {
		return c[0], c[1], nil
	}
	if s := closestDiverging(name); s != "" {
		return "", "", errors.Errorf("unknown diverging palette %q (did you mean %q?)", name, s)
	}
	return "", "", errors.Errorf("unknown diverging palette %q", name)
}

// closestDiverging returns the recognized palette name nearest to name by
// edit distance, or "" when nothing is plausibly close.
func closestDiverging(name string) string {
	best, bestDist := "", 4
	for candidate := range diverging {
		if d := matchr.Levenshtein(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
