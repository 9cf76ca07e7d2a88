package kernel

import (
	"sync/atomic"

	"robotwars/internal/config"
	"robotwars/internal/kernel/mask"
)

// SensorView is the read-only rendering-contract view of one sensor slot.
type SensorView struct {
	Type         SensorType
	On, Powered  bool
	DrawX, DrawY int
	Mask         *mask.Mask
}

// RobotView is the read-only rendering-contract view of one robot: its
// current mask and colour, position, heading, status message.
type RobotView struct {
	ID            int
	Name          string
	Color         Color
	X, Y, Heading float64
	StatusMessage string
	Destroyed     bool
	Mask          *mask.Mask
	Sensors       []SensorView
}

// WeaponView is the read-only rendering-contract view of one in-flight
// weapon.
type WeaponView struct {
	Kind          WeaponType
	X, Y, Heading float64
	Mask          *mask.Mask
}

// Snapshot is one immutable, fully-populated rendering frame: everything
// the external rendering/telemetry collaborator needs, and nothing it
// can mutate.
type Snapshot struct {
	TickCount uint64
	State     GameState

	Live      []RobotView
	Destroyed []RobotView
	Weapons   []WeaponView

	SoundRequest [8]bool
}

// SnapshotPool produces immutable Snapshots without blocking readers,
// separating the simulation goroutine from the HTTP/WebSocket render
// path: three preallocated buffers are cycled so the Snapshot structs
// and their view slices are reused (each RobotView's Sensors slice is
// still allocated per Produce), and the currently-published one is
// exposed through a single atomic pointer.
type SnapshotPool struct {
	buffers [3]*Snapshot
	next    int
	current atomic.Pointer[Snapshot]
}

// NewSnapshotPool preallocates the triple buffer with slice capacity
// sized to the configured resource limits.
func NewSnapshotPool(limits config.ResourceLimits) *SnapshotPool {
	p := &SnapshotPool{}
	for i := range p.buffers {
		p.buffers[i] = &Snapshot{
			Live:      make([]RobotView, 0, limits.MaxRobots),
			Destroyed: make([]RobotView, 0, limits.MaxRobots),
			Weapons:   make([]WeaponView, 0, limits.MaxInFlightWeapon),
		}
	}
	return p
}

// Produce rebuilds the next buffer slot from the engine's current state
// and publishes it; called once per tick, under e.mu, from tick().
func (p *SnapshotPool) Produce(e *Engine) {
	snap := p.buffers[p.next]
	p.next = (p.next + 1) % len(p.buffers)

	snap.TickCount = e.tickCount
	snap.State = e.game.State
	snap.SoundRequest = e.game.SoundRequest
	snap.Live = snap.Live[:0]
	snap.Destroyed = snap.Destroyed[:0]
	snap.Weapons = snap.Weapons[:0]

	for _, r := range e.robots {
		view := robotView(r)
		if r.Destroyed {
			snap.Destroyed = append(snap.Destroyed, view)
		} else {
			snap.Live = append(snap.Live, view)
		}
	}
	for _, w := range e.weapons {
		snap.Weapons = append(snap.Weapons, WeaponView{Kind: w.Kind, X: w.X, Y: w.Y, Heading: w.Heading, Mask: w.Mask})
	}

	p.current.Store(snap)
}

func robotView(r *Robot) RobotView {
	sensors := make([]SensorView, len(r.Sensors))
	for i, s := range r.Sensors {
		sensors[i] = SensorView{Type: s.Type, On: s.On, Powered: s.Powered, DrawX: s.DrawX, DrawY: s.DrawY, Mask: s.Mask}
	}
	return RobotView{
		ID:            r.ID,
		Name:          r.Name,
		Color:         r.Color,
		X:             r.X,
		Y:             r.Y,
		Heading:       r.Heading,
		StatusMessage: r.StatusMessage,
		Destroyed:     r.Destroyed,
		Mask:          r.Mask,
		Sensors:       sensors,
	}
}

// AcquireRead returns the most recently published snapshot. The returned
// pointer is immutable from the caller's perspective: the next Produce
// call writes into a different buffer slot, never this one.
func (p *SnapshotPool) AcquireRead() *Snapshot {
	return p.current.Load()
}
