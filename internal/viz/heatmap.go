package viz

import (
	"strings"

	"github.com/geodyn/convect/internal/field"
)

// shades runs cold to hot.
var shades = []byte(" .:-=+*#%@")

// Heatmap renders the field as roughly w by h characters, hottest
// densest. The first output line is the top of the domain.
func Heatmap(f *field.Scalar, w, h int) string {
	ny, nx := f.Grid().Shape()
	if w < 2 {
		w = 2
	}
	if h < 2 {
		h = 2
	}
	if w > nx {
		w = nx
	}
	if h > ny {
		h = ny
	}

	lo, hi := f.Min(), f.Max()
	span := hi - lo

	var b strings.Builder
	for vr := h - 1; vr >= 0; vr-- {
		r := vr * (ny - 1) / (h - 1)
		for vc := 0; vc < w; vc++ {
			c := vc * (nx - 1) / (w - 1)
			idx := 0
			if span > 0 {
				idx = int((f.At(r, c) - lo) / span * float64(len(shades)-1))
				if idx < 0 {
					idx = 0
				}
				if idx > len(shades)-1 {
					idx = len(shades) - 1
				}
			}
			b.WriteByte(shades[idx])
		}
		if vr > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
