package digit

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/coin-ticker/internal/view"
)

var styleRe = regexp.MustCompile(`top: -([0-9.]+)em; .* transition: top (\d+)ms`)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func parseStyle(t *testing.T, n view.Node) (offset float64, ms int) {
	t.Helper()
	cols := view.FindClass(n, "digit-column")
	require.Len(t, cols, 1)

	m := styleRe.FindStringSubmatch(cols[0].Style)
	require.Len(t, m, 3, "style %q", cols[0].Style)

	offset, err := strconv.ParseFloat(m[1], 64)
	require.NoError(t, err)
	ms, err = strconv.Atoi(m[2])
	require.NoError(t, err)
	return offset, ms
}

func TestNew_IsUnset(t *testing.T) {
	assert.Equal(t, Unset, New().Value())
}

func TestSelect(t *testing.T) {
	d := New()
	d.Select(7)
	assert.Equal(t, 7, d.Value())

	// Out of range is stored, not rejected.
	d.Select(42)
	assert.Equal(t, 42, d.Value())
}

func TestView_Structure(t *testing.T) {
	d := New()
	d.Select(3)
	n := d.View(seeded(1))

	assert.Equal(t, "digit-box", n.Class)
	assert.Equal(t, Glyphs[:], view.Glyphs(n))
	assert.Len(t, view.FindClass(n, "digit"), 11)
}

func TestView_OffsetCentersSelectedGlyph(t *testing.T) {
	for value := Unset; value <= 9; value++ {
		d := New()
		d.Select(value)

		for seed := uint64(0); seed < 50; seed++ {
			offset, _ := parseStyle(t, d.View(seeded(seed)))
			center := float64(value) + baseOffset
			assert.InDelta(t, center, offset, 0.01+1e-4, "value %d seed %d", value, seed)
		}
	}
}

func TestView_TransitionBounds(t *testing.T) {
	d := New()
	d.Select(5)
	for seed := uint64(0); seed < 200; seed++ {
		_, ms := parseStyle(t, d.View(seeded(seed)))
		assert.GreaterOrEqual(t, ms, 500)
		assert.Less(t, ms, 2500)
	}
}

func TestView_SeededIsReproducible(t *testing.T) {
	d := New()
	d.Select(8)
	assert.Equal(t, d.View(seeded(42)), d.View(seeded(42)))
}

func TestOffset(t *testing.T) {
	d := New()
	d.Select(4)
	assert.InDelta(t, 5.01, d.Offset(0.5), 1e-9)
	assert.InDelta(t, 5.00, d.Offset(0), 1e-9)
	assert.InDelta(t, 5.02, d.Offset(1), 1e-9)
}
