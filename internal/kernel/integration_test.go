package kernel

import (
	"testing"

	"robotwars/internal/config"
)

// TestIntegrationDrivesSeveralTicks builds a whole engine with two
// registered robots and drives several ticks' worth of subsystems
// directly (bypassing the wall-clock ticker started by Engine.Start),
// checking the core invariants hold throughout.
func TestIntegrationDrivesSeveralTicks(t *testing.T) {
	e := NewEngine(config.Load())
	a := e.RegisterRobot("alpha", ColorRed, func(ops *Ops, _ int) {
		ops.SetMotorSpeeds(80, 60)
		ops.SetSystemChargeRate(SystemShields, 300)
	}, func(ops *Ops) {
		ops.AddSensor(0, SensorRadar, 0, 30, 80)
		ops.AddSensor(1, SensorRange, 0, 0, 100)
	}, "", 0, 0, 0, true)
	b := e.RegisterRobot("beta", ColorBlue, func(ops *Ops, _ int) {
		ops.SetMotorSpeeds(-60, 80)
	}, nil, "", 0, 0, 0, true)

	e.StartEventLog()

	for i := 0; i < 200; i++ {
		e.tick()

		for _, r := range []*Robot{a, b} {
			if r.Destroyed {
				continue
			}
			if r.Shield < 0 || r.Shield > e.cfg.Energy.MaxShieldEnergy {
				t.Fatalf("tick %d: shield out of range: %v", i, r.Shield)
			}
			if r.GeneratorStructure < 0 || r.GeneratorStructure > e.cfg.Energy.MaxGeneratorStruct {
				t.Fatalf("tick %d: structure out of range: %d", i, r.GeneratorStructure)
			}
			if r.Heading < 0 || r.Heading >= 360 {
				t.Fatalf("tick %d: heading out of [0,360): %v", i, r.Heading)
			}
			minX, maxX := e.cfg.Arena.ShieldRad, e.cfg.Arena.WidthCM-e.cfg.Arena.ShieldRad-e.cfg.Arena.WallEps
			minY, maxY := e.cfg.Arena.ShieldRad, e.cfg.Arena.HeightCM-e.cfg.Arena.ShieldRad-e.cfg.Arena.WallEps
			if r.X < minX-1e-6 || r.X > maxX+1e-6 || r.Y < minY-1e-6 || r.Y > maxY+1e-6 {
				t.Fatalf("tick %d: robot %s left the arena: (%v,%v)", i, r.Name, r.X, r.Y)
			}
		}
	}

	snap := e.GetSnapshot()
	if snap == nil {
		t.Fatal("expected a produced snapshot after driving ticks")
	}
	if snap.TickCount != e.tickCount {
		t.Errorf("expected snapshot tick count %d, got %d", e.tickCount, snap.TickCount)
	}

	stats := e.EventLogStats()
	if stats["emitted"] == 0 {
		t.Error("expected the event log to have recorded at least one event")
	}
}

// TestStartStopDoesNotPanic checks the wall-clock-driven lifecycle can
// start and stop (including a redundant second stop) without panicking.
func TestStartStopDoesNotPanic(t *testing.T) {
	e := NewEngine(config.Load())
	e.RegisterRobot("solo", ColorGreen, func(ops *Ops, _ int) {}, nil, "", 0, 0, 0, true)

	e.Start()
	e.Stop()
	e.Stop()
}
