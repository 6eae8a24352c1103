// Package digit implements the odometer strip for a single decimal position.
package digit

import (
	"fmt"
	"math/rand/v2"

	"github.com/rickgao/coin-ticker/internal/view"
)

// Unset is the value of a digit that has not been selected yet.
const Unset = -1

// Glyphs is the vertical strip shown by every digit, placeholder first.
var Glyphs = [...]string{"?", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// Strip geometry and timing.
const (
	// baseOffset skips the placeholder glyph, in em.
	baseOffset = 1.01
	// jitterSpan is the full width of the positional jitter, in em (±1% of a glyph).
	jitterSpan = 0.02
	// Transition duration is baseTransitionMs ± transitionSpreadMs.
	baseTransitionMs   = 1500
	transitionSpreadMs = 1000
)

// Digit is one column of the ticker.
type Digit struct {
	value int
}

// New returns an unset digit.
func New() *Digit {
	return &Digit{value: Unset}
}

// Select sets the displayed value. Values outside 0-9 are stored as given and
// simply do not line up with a glyph.
func (d *Digit) Select(value int) {
	d.value = value
}

// Value returns the selected value, or Unset.
func (d *Digit) Value() int {
	return d.value
}

// Offset returns the strip's vertical offset in em for a jitter sample u in (0,1).
func (d *Digit) Offset(u float64) float64 {
	jitter := (u - 0.5) * jitterSpan
	return float64(d.value) + jitter + baseOffset
}

// TransitionMs returns a randomized transition duration in [500, 2500).
func TransitionMs(rng *rand.Rand) int {
	return baseTransitionMs - transitionSpreadMs + rng.IntN(2*transitionSpreadMs)
}

// View renders the strip. Randomness comes only from rng so a seeded source
// produces identical trees.
func (d *Digit) View(rng *rand.Rand) view.Node {
	style := fmt.Sprintf(
		"flex-direction: column; top: -%.4fem; position: relative; transition: top %dms cubic-bezier(0,1.2,0.9,1);",
		d.Offset(open01(rng)),
		TransitionMs(rng),
	)

	glyphs := make([]view.Node, 0, len(Glyphs))
	for _, g := range Glyphs {
		glyphs = append(glyphs, view.El("div", "digit", "", view.TextNode(g)))
	}

	return view.El("div", "digit-box", "",
		view.El("div", "digit-column", style, glyphs...),
	)
}

// open01 samples uniformly from the open interval (0,1).
func open01(rng *rand.Rand) float64 {
	for {
		if u := rng.Float64(); u > 0 {
			return u
		}
	}
}
