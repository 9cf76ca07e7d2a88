package kernel

import (
	"math"
	"testing"

	"robotwars/internal/config"
)

func newTestEngine() *Engine {
	return NewEngine(config.Load())
}

func mustRegister(t *testing.T, e *Engine, name string, x, y, heading float64) *Robot {
	t.Helper()
	r := e.RegisterRobot(name, ColorRed, nil, nil, "", x, y, heading, false)
	return r
}

// TestStraightLineTranslation covers boundary scenario 1: equal tread
// speeds produce pure translation at MAX_SPEED, heading unchanged.
func TestStraightLineTranslation(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "straight", 100, 100, 0)
	r.LeftSpeed, r.RightSpeed = 100, 100

	for i := 0; i < 60; i++ {
		e.runMotion()
	}

	if math.Abs(r.X-111.76) > 0.01 {
		t.Errorf("expected x ~= 111.76, got %v", r.X)
	}
	if math.Abs(r.Y-100) > 1e-6 {
		t.Errorf("expected y unchanged at 100, got %v", r.Y)
	}
	if r.Heading != 0 {
		t.Errorf("expected heading 0, got %v", r.Heading)
	}
}

// TestPureRotation covers boundary scenario 2: opposite equal tread
// speeds rotate about the robot's own centre.
func TestPureRotation(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "spinner", 100, 100, 0)
	r.LeftSpeed, r.RightSpeed = -100, 100

	for i := 0; i < 60; i++ {
		e.runMotion()
	}

	if math.Abs(r.X-100) > 0.05 || math.Abs(r.Y-100) > 0.05 {
		t.Errorf("expected centre to stay ~= (100,100), got (%v,%v)", r.X, r.Y)
	}
	want := 360 * 11.76 / (math.Pi * e.cfg.Motion.TreadDistance)
	got := math.Abs(normalizeDelta180(r.Heading))
	if math.Abs(got-want) > 0.5 {
		t.Errorf("expected |heading| ~= %.2f, got %.2f", want, got)
	}
}

func normalizeDelta180(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

// TestWallBump covers boundary scenario 3: a robot driven into the wall
// is clamped to the wall and the WALL bump bit is set.
func TestWallBump(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "rammer", 16, 200, 180)
	r.LeftSpeed, r.RightSpeed = 100, 100

	e.runMotion()
	e.rasteriseRobotMasks()
	e.runRobotCollisions()

	if r.X != e.cfg.Arena.ShieldRad {
		t.Errorf("expected x clamped to %v, got %v", e.cfg.Arena.ShieldRad, r.X)
	}
	ops := &Ops{e: e, robotID: r.ID}
	bump := ops.GetBumpInfo()
	if bump&BumpWall == 0 {
		t.Errorf("expected WALL bump bit set, got %#x", bump)
	}
	if again := ops.GetBumpInfo(); again != 0 {
		t.Errorf("expected bump bits cleared after read, got %#x", again)
	}
}

// TestSingleTreadStoppedPivot covers the one-tread-stopped case: with the
// right tread stopped and the left tread at full speed, the robot must
// pivot about the stationary tread rather than translate away from it.
func TestSingleTreadStoppedPivot(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "pivot", 100, 100, 0)
	r.LeftSpeed, r.RightSpeed = 100, 0

	for i := 0; i < 60; i++ {
		e.runMotion()
	}

	if math.Abs(r.X-105.3) > 0.5 || math.Abs(r.Y-97.9) > 0.5 {
		t.Errorf("expected position ~= (105.3,97.9), got (%v,%v)", r.X, r.Y)
	}
	got := normalizeDelta180(r.Heading)
	if math.Abs(got-(-43.5)) > 0.5 {
		t.Errorf("expected heading ~= -43.5, got %v", got)
	}
}

// TestUnequalTreadsArc covers the general both-treads-moving case: unequal,
// same-sign tread speeds sweep an arc about an instantaneous centre of
// rotation rather than teleporting the robot off the arena.
func TestUnequalTreadsArc(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "arcer", 100, 100, 0)
	r.LeftSpeed, r.RightSpeed = 80, 40

	for i := 0; i < 60; i++ {
		e.runMotion()
	}

	if math.Abs(r.X-107) > 1 || math.Abs(r.Y-99) > 1 {
		t.Errorf("expected position ~= (107,99), got (%v,%v)", r.X, r.Y)
	}
	got := normalizeDelta180(r.Heading)
	if math.Abs(got-(-17.4)) > 0.5 {
		t.Errorf("expected heading ~= -17.4, got %v", got)
	}
}

// TestMotionKeepsRobotInsideArena is a property test: random tread
// speeds and headings must never move a robot's bounding disc outside
// the arena once wall clamping runs.
func TestMotionKeepsRobotInsideArena(t *testing.T) {
	e := newTestEngine()
	seeds := [][3]float64{
		{-100, 100, 0}, {100, -100, 45}, {37, 91, 190}, {-50, -50, 270}, {0, 100, 10},
	}
	for _, s := range seeds {
		r := mustRegister(t, e, "roamer", e.cfg.Arena.WidthCM/2, e.cfg.Arena.HeightCM/2, s[2])
		r.LeftSpeed, r.RightSpeed = int(s[0]), int(s[1])
		for i := 0; i < 120; i++ {
			e.runMotion()
			e.rasteriseRobotMasks()
			e.runRobotCollisions()
		}
		minX, maxX := e.cfg.Arena.ShieldRad, e.cfg.Arena.WidthCM-e.cfg.Arena.ShieldRad-e.cfg.Arena.WallEps
		minY, maxY := e.cfg.Arena.ShieldRad, e.cfg.Arena.HeightCM-e.cfg.Arena.ShieldRad-e.cfg.Arena.WallEps
		if r.X < minX-1e-6 || r.X > maxX+1e-6 || r.Y < minY-1e-6 || r.Y > maxY+1e-6 {
			t.Errorf("robot left the arena: (%v,%v)", r.X, r.Y)
		}
		e.robots = nil // isolate each seed
	}
}
