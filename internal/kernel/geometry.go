package kernel

import (
	"math"

	"robotwars/internal/kernel/mask"
)

// toPx converts a simulation-space centimetre coordinate to the pixel
// coordinate used by mask queries.
func (e *Engine) toPx(cm float64) int {
	return int(math.Round(cm * e.cfg.Arena.PxPerCM))
}

// maskOrigin returns the world-pixel top-left offset at which m must be
// placed so that its centre sits at (x, y).
func (e *Engine) maskOrigin(m *mask.Mask, x, y float64) (int, int) {
	return e.toPx(x) - m.W/2, e.toPx(y) - m.H/2
}

func (e *Engine) arenaPxW() int { return e.toPx(e.cfg.Arena.WidthCM) }
func (e *Engine) arenaPxH() int { return e.toPx(e.cfg.Arena.HeightCM) }

// colourFor maps a robot's display colour to a mask colour index; index 0
// is reserved as the transparent sentinel (mask/graphic.go), so every
// robot colour maps to a nonzero index.
func colourFor(c Color) uint8 {
	return uint8(c) + 1
}
