// Package mask implements the pixel-perfect collision primitives the
// kernel uses as its only source of geometric truth: a Mask is a small
// opaque/transparent pixel grid, tested against another Mask with a
// bounding-box reject before the pixel walk, or walked along a line with
// a per-pixel predicate for range sensing.
package mask

import "math"

// Mask is a width x height grid of opaque/transparent cells. Opaque
// cells also carry a colour, used by the radar fan and by rendering.
type Mask struct {
	W, H int
	px   []bool
	col  []uint8 // colour index per cell, valid only where px[i] is true
}

// New allocates a transparent mask of the given size.
func New(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Mask{W: w, H: h, px: make([]bool, w*h), col: make([]uint8, w*h)}
}

// Clear resets every cell to transparent without reallocating.
func (m *Mask) Clear() {
	for i := range m.px {
		m.px[i] = false
	}
}

func (m *Mask) idx(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0, false
	}
	return y*m.W + x, true
}

// Set marks a pixel opaque with the given colour.
func (m *Mask) Set(x, y int, colour uint8) {
	if i, ok := m.idx(x, y); ok {
		m.px[i] = true
		m.col[i] = colour
	}
}

// Erase marks a pixel transparent.
func (m *Mask) Erase(x, y int) {
	if i, ok := m.idx(x, y); ok {
		m.px[i] = false
	}
}

// Opaque reports whether the pixel at (x, y) is opaque. Out-of-bounds
// pixels are treated as transparent.
func (m *Mask) Opaque(x, y int) bool {
	i, ok := m.idx(x, y)
	return ok && m.px[i]
}

// FillDisc fills every pixel within radius r (inclusive) of (cx, cy) with
// the given colour. Used by the radar mask.
func (m *Mask) FillDisc(cx, cy int, r float64, colour uint8) {
	ri := int(math.Ceil(r))
	r2 := r * r
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= r2 {
				m.Set(cx+dx, cy+dy, colour)
			}
		}
	}
}

// EraseRadial erases a ray of pixels from (cx, cy) out to length r at the
// given angle in degrees.
func (m *Mask) EraseRadial(cx, cy int, angleDeg, r float64) {
	rad := angleDeg * math.Pi / 180
	steps := int(r) + 2
	for i := 0; i <= steps; i++ {
		d := float64(i)
		x := cx + int(math.Round(d*math.Cos(rad)))
		y := cy + int(math.Round(d*math.Sin(rad)))
		m.Erase(x, y)
	}
}

// FloodFillErase clears every opaque pixel reachable from (sx, sy) via
// 4-connectivity without crossing an already-transparent boundary: this
// removes the non-fan portion of the radar disc after the two radial
// boundaries have been cut.
func (m *Mask) FloodFillErase(sx, sy int) {
	if !m.Opaque(sx, sy) {
		return
	}
	stack := []int{sy*m.W + sx}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !m.px[i] {
			continue
		}
		m.px[i] = false
		x, y := i%m.W, i/m.W
		if x > 0 && m.Opaque(x-1, y) {
			stack = append(stack, i-1)
		}
		if x < m.W-1 && m.Opaque(x+1, y) {
			stack = append(stack, i+1)
		}
		if y > 0 && m.Opaque(x, y-1) {
			stack = append(stack, i-m.W)
		}
		if y < m.H-1 && m.Opaque(x, y+1) {
			stack = append(stack, i+m.W)
		}
	}
}

// Overlap performs a bounding-box pre-reject between two masks placed at
// the given top-left offsets, then iterates the smaller sprite's cells to
// test pixel-perfect overlap.
func Overlap(a *Mask, ax, ay int, b *Mask, bx, by int) bool {
	aLeft, aTop, aRight, aBottom := ax, ay, ax+a.W, ay+a.H
	bLeft, bTop, bRight, bBottom := bx, by, bx+b.W, by+b.H
	if aRight <= bLeft || bRight <= aLeft || aBottom <= bTop || bBottom <= aTop {
		return false
	}

	small, sx, sy, large, lx, ly := a, ax, ay, b, bx, by
	if b.W*b.H < a.W*a.H {
		small, sx, sy, large, lx, ly = b, bx, by, a, ax, ay
	}

	for y := 0; y < small.H; y++ {
		for x := 0; x < small.W; x++ {
			if !small.Opaque(x, y) {
				continue
			}
			wx, wy := sx+x, sy+y
			if large.Opaque(wx-lx, wy-ly) {
				return true
			}
		}
	}
	return false
}

// PixelPredicate is tested against a world-space pixel during WalkLine.
// It returns true if the walk should stop at this point.
type PixelPredicate func(x, y int) bool

// WalkLine steps a Bresenham line from (x0,y0) to (x1,y1) calling
// predicate at each point; it stops and returns the first point for
// which predicate returns true.
func WalkLine(x0, y0, x1, y1 int, predicate PixelPredicate) (int, int, bool) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		if predicate(x, y) {
			return x, y, true
		}
		if x == x1 && y == y1 {
			return x, y, false
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
