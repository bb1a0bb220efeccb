package opacity

import (
	"math"
	"strings"
	"testing"

	"github.com/genvis/trackbuild/palette"
	"github.com/stretchr/testify/assert"
)

func TestLogDecay(t *testing.T) {
	e := string(LogDecay())
	assert.Contains(t, e, "if(score == 0.0) { opacity = 1; }")
	assert.Contains(t, e, "(20 - Math.log10(score)) / 180")

	// The policy itself: zero scores render fully opaque, a score of 100
	// renders at (20-2)/180.
	policy := func(score float64) float64 {
		if score == 0 {
			return 1
		}
		return (20 - math.Log10(score)) / 180
	}
	assert.Equal(t, 1.0, policy(0))
	assert.InEpsilon(t, 0.1, policy(100), 1e-9)
}

func TestLinearNormalize(t *testing.T) {
	e, ok := LinearNormalize(1, 5)
	assert.True(t, ok)
	assert.Equal(t, "var opacity = (score - 1) * (1/(5 - 1));", string(e))

	e, ok = LinearNormalize(0.5, 99.25)
	assert.True(t, ok)
	assert.Equal(t, "var opacity = (score - 0.5) * (1/(99.25 - 0.5));", string(e))
}

func TestLinearNormalizeDegenerateRange(t *testing.T) {
	// max == min would put a literal zero in the denominator; the builder
	// must refuse instead.
	for _, v := range []float64{0, 5, -3.25} {
		e, ok := LinearNormalize(v, v)
		assert.False(t, ok)
		assert.Empty(t, string(e))
	}
}

func TestColorFunction(t *testing.T) {
	f := ColorFunction(SourceParent, LogDecay(), palette.RGB{R: 31, G: 120, B: 180})
	assert.False(t, strings.Contains(f, "\n"), "callback must be embeddable on one line")
	assert.Contains(t, f, "var score = feature._parent.get('score');")
	assert.Contains(t, f, "return 'rgba(31, 120, 180, ' + opacity + ')';")

	e, ok := LinearNormalize(0, 10)
	assert.True(t, ok)
	f = ColorFunction(SourceFeature, e, palette.RGB{R: 166, G: 206, B: 227})
	assert.Contains(t, f, "var score = feature.get('score');")
	assert.Contains(t, f, "rgba(166, 206, 227, ")
}
