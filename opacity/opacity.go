// Package opacity builds the score-driven color callbacks embedded in
// track descriptors.  The callback is a textual expression evaluated by
// the viewer once per feature at render time; this pipeline never touches
// individual features, it only decides the formula.
package opacity

import (
	"fmt"
	"strings"

	"github.com/genvis/trackbuild/palette"
)

// Source selects where the viewer reads a feature's score from.
// Pairwise-alignment results group HSPs under a parent match feature and
// keep the score there; plain interval features carry it themselves.
type Source int

const (
	// SourceFeature reads the score off the feature itself.
	SourceFeature Source = iota
	// SourceParent reads the score off the feature's parent.
	SourceParent
)

func (s Source) expr() string {
	if s == SourceParent {
		return "feature._parent.get('score')"
	}
	return "feature.get('score')"
}

// Expr is a statement computing an `opacity` variable from `score`.
type Expr string

// LogDecay maps e-value-like scores where zero is best: a zero score is
// fully opaque, anything else decays with log10(score).
func LogDecay() Expr {
	return Expr("var opacity = 0; if(score == 0.0) { opacity = 1; } else { opacity = (20 - Math.log10(score)) / 180; }")
}

// LinearNormalize rescales scores linearly from [min, max] onto [0, 1].
// ok is false when max == min, in which case no expression is usable and
// the caller must skip score-driven coloring for the track.
func LinearNormalize(min, max float64) (e Expr, ok bool) {
	if max == min {
		return "", false
	}
	return Expr(fmt.Sprintf("var opacity = (score - %v) * (1/(%v - %v));", min, max, min)), true
}

const colorFunctionTemplate = `function(feature, variableName, glyphObject, track) {
    var score = %s;
    %s
    return 'rgba(%d, %d, %d, ' + opacity + ')';
}`

// ColorFunction renders the per-feature color callback as a single line,
// combining a score source, an opacity expression, and a base color.
func ColorFunction(src Source, e Expr, c palette.RGB) string {
	f := fmt.Sprintf(colorFunctionTemplate, src.expr(), e, c.R, c.G, c.B)
	return strings.Replace(f, "\n", "", -1)
}
