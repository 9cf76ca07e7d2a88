package kernel

import (
	"testing"

	"robotwars/internal/config"
)

// BenchmarkTick measures single-tick throughput with a full roster of
// robots.
func BenchmarkTick(b *testing.B) {
	e := NewEngine(config.Load())
	for i := 0; i < e.cfg.Limits.MaxRobots; i++ {
		e.RegisterRobot("bot", ColorRed, func(ops *Ops, _ int) {
			ops.SetMotorSpeeds(70, 90)
		}, func(ops *Ops) {
			ops.AddSensor(0, SensorRadar, 0, 30, 80)
		}, "", 0, 0, 0, true)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.tick()
	}
}

// BenchmarkWeaponCollisions measures the sweep-and-prune broad phase
// under a full in-flight weapon load.
func BenchmarkWeaponCollisions(b *testing.B) {
	e := NewEngine(config.Load())
	var robots []*Robot
	for i := 0; i < e.cfg.Limits.MaxRobots; i++ {
		robots = append(robots, e.RegisterRobot("bot", ColorRed, nil, nil, "", 0, 0, 0, true))
	}
	for _, r := range robots {
		r.Weapons[WeaponLaser].ChargeEnergy = e.cfg.Weapons.Laser.MinEnergy
		ops := &Ops{e: e, robotID: r.ID}
		ops.FireWeapon(WeaponLaser, 0)
	}
	e.rasteriseRobotMasks()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.runWeaponCollisions()
	}
}
