package spatial

import "sort"

// AABB is an axis-aligned bounding box in arena centimetres.
type AABB struct {
	ID                     uint32
	MinX, MinY, MaxX, MaxY float64
}

// SweepAndPrune finds overlapping AABB pairs by sorting entities along
// the x axis and sweeping once per tick. Nearly O(n) when entities move
// little between ticks (temporal coherence), used as the broad phase for
// weapon-vs-robot pre-reject ahead of the pixel-exact mask test.
type SweepAndPrune struct {
	boxes []AABB
	pairs []Pair
}

// Pair is a candidate overlapping entity pair found by a sweep.
type Pair struct {
	A, B uint32
}

// NewSweepAndPrune creates a sweep-and-prune index with room for capacity
// entities without reallocating in the common case.
func NewSweepAndPrune(capacity int) *SweepAndPrune {
	return &SweepAndPrune{
		boxes: make([]AABB, 0, capacity),
		pairs: make([]Pair, 0, capacity*2),
	}
}

// Reset clears the entity list for the next tick.
func (s *SweepAndPrune) Reset() {
	s.boxes = s.boxes[:0]
}

// Add registers an entity's current bounding box for this tick's sweep.
func (s *SweepAndPrune) Add(box AABB) {
	s.boxes = append(s.boxes, box)
}

// Sweep returns every pair of boxes whose x and y extents both overlap.
// The returned slice is reused on the next call.
func (s *SweepAndPrune) Sweep() []Pair {
	sort.Slice(s.boxes, func(i, j int) bool { return s.boxes[i].MinX < s.boxes[j].MinX })

	s.pairs = s.pairs[:0]
	for i := 0; i < len(s.boxes); i++ {
		a := s.boxes[i]
		for j := i + 1; j < len(s.boxes); j++ {
			b := s.boxes[j]
			if b.MinX > a.MaxX {
				break // sorted by MinX: no further box can overlap on x
			}
			if a.MinY <= b.MaxY && b.MinY <= a.MaxY {
				s.pairs = append(s.pairs, Pair{A: a.ID, B: b.ID})
			}
		}
	}
	return s.pairs
}
