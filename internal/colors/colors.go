// Package colors assigns display colors to categories.
//
// The first thirty categories get distinct palette entries. Past that,
// random HSL colors are accepted only when they sit at least MinDistance
// away (Euclidean, 0-255 RGB) from every color already in use.
package colors

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MinDistance is the smallest RGB distance a generated color may have to an
// existing one.
const MinDistance = 50.0

const maxAttempts = 50

var palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#FF8A80", "#81C784", "#64B5F6", "#FFB74D",
	"#F06292", "#9575CD", "#A5D6A7", "#FFCC80", "#CE93D8",
	"#80CBC4", "#FFAB91", "#C5E1A5", "#FFF176", "#BCAAA4",
	"#90CAF9", "#F8BBD9", "#B39DDB", "#DCEDC8", "#FFE082",
	"#D7CCC8", "#B0BEC5", "#FFCDD2", "#C8E6C9", "#BBDEFB",
}

// Palette returns a copy of the fixed palette in allocation order.
func Palette() []string {
	out := make([]string, len(palette))
	copy(out, palette)
	return out
}

// Allocator picks colors. It is not safe for concurrent use.
type Allocator struct {
	rng *rand.Rand
}

// NewAllocator returns an Allocator drawing from rng. A nil rng uses a
// randomly seeded source.
func NewAllocator(rng *rand.Rand) *Allocator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Allocator{rng: rng}
}

// Next returns a color for a new category given the colors already in use.
func (a *Allocator) Next(used []string) string {
	for _, c := range palette {
		if !contains(used, c) {
			return c
		}
	}

	for range maxAttempts {
		h := float64(a.rng.IntN(360))
		s := float64(a.rng.IntN(30)+60) / 100
		l := float64(a.rng.IntN(20)+50) / 100
		candidate := strings.ToUpper(colorful.Hsl(h, s, l).Hex())
		if !tooClose(candidate, used) {
			return candidate
		}
	}
	return palette[a.rng.IntN(len(palette))]
}

// Distance returns the RGB Euclidean distance between two hex colors, and
// false if either does not parse.
func Distance(x, y string) (float64, bool) {
	cx, ok := parse(x)
	if !ok {
		return 0, false
	}
	cy, ok := parse(y)
	if !ok {
		return 0, false
	}
	xr, xg, xb := cx.RGB255()
	yr, yg, yb := cy.RGB255()
	dr := float64(xr) - float64(yr)
	dg := float64(xg) - float64(yg)
	db := float64(xb) - float64(yb)
	return math.Sqrt(dr*dr + dg*dg + db*db), true
}

func tooClose(candidate string, used []string) bool {
	for _, u := range used {
		if d, ok := Distance(candidate, u); ok && d < MinDistance {
			return true
		}
	}
	return false
}

func parse(hex string) (colorful.Color, bool) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 7 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

func contains(used []string, c string) bool {
	for _, u := range used {
		if strings.EqualFold(strings.TrimSpace(u), c) {
			return true
		}
	}
	return false
}

// Valid reports whether s is a "#RRGGBB" color.
func Valid(s string) bool {
	_, ok := parse(s)
	return ok && strings.HasPrefix(strings.TrimSpace(s), "#")
}
