// Package spatial provides cache-efficient broad-phase structures for the
// collision (C5) subsystem: a uniform grid and a sweep-and-prune axis
// list, both operating on entity indices (not pointers) to avoid
// per-query allocation in the hot tick loop.
package spatial

import "math"

// Grid provides O(1) average broad-phase queries via fixed-size cells.
// Used for robot<->robot collisions so that only robots in nearby cells
// get the exact centre-distance check.
type Grid struct {
	cellSize    float64
	invCellSize float64
	cols, rows  int
	cells       [][]uint32
	scratch     []uint32
}

// NewGrid creates a grid covering [0,width]x[0,height] in cm.
func NewGrid(width, height, cellSize float64, maxEntities int) *Grid {
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]uint32, cols*rows)
	avgPerCell := maxEntities / len(cells)
	if avgPerCell < 4 {
		avgPerCell = 4
	}
	for i := range cells {
		cells[i] = make([]uint32, 0, avgPerCell)
	}

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]uint32, 0, 16),
	}
}

// Clear empties every cell without deallocating underlying memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *Grid) clampedCell(x, y float64) (int, int) {
	col := int(x * g.invCellSize)
	row := int(y * g.invCellSize)
	if col < 0 {
		col = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// Insert places entityID (an index into the caller's entity slice) at
// (x, y). O(1).
func (g *Grid) Insert(entityID uint32, x, y float64) {
	col, row := g.clampedCell(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], entityID)
}

// QueryRadius returns candidate entity ids whose cell could contain a
// point within radius of (cx, cy). Candidates require a precise distance
// or mask check by the caller; the returned slice is reused on the next
// call and must not be retained.
func (g *Grid) QueryRadius(cx, cy, radius float64) []uint32 {
	g.scratch = g.scratch[:0]

	minCol, minRow := g.clampedCell(cx-radius, cy-radius)
	maxCol, maxRow := g.clampedCell(cx+radius, cy+radius)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			g.scratch = append(g.scratch, g.cells[row*g.cols+col]...)
		}
	}
	return g.scratch
}
