package sampleagent

import "robotwars/internal/kernel"

// Sentry favours missile charge, slows when its short-range radar sees a
// contact, turbos when only its long-range radar does, otherwise paces between the walls it can see on its forward/rear range
// sensors (grounded on bender.c's BenderActions/PimpOutBender).
type Sentry struct {
	views     int
	laserHits int
}

// NewSentry returns a fresh Sentry's Configure and Actions callbacks.
func NewSentry() (kernel.ConfigureFunc, kernel.ActionsFunc) {
	s := &Sentry{}
	return s.configure, s.actions
}

func (s *Sentry) configure(ops *kernel.Ops) {
	ops.AddSensor(0, kernel.SensorRadar, -10, 20, 100)
	ops.AddSensor(1, kernel.SensorRadar, -20, 40, 60)
	ops.AddSensor(2, kernel.SensorRange, 40, 0, 0)
	ops.AddSensor(3, kernel.SensorRange, 140, 0, 0)
}

func (s *Sentry) actions(ops *kernel.Ops, timePassedMS int) {
	ops.SetSystemChargePriorities([4]kernel.SystemKind{
		kernel.SystemMissiles, kernel.SystemSensors, kernel.SystemShields, kernel.SystemLasers,
	})
	ops.SetSystemChargeRate(kernel.SystemShields, 200)
	ops.SetSystemChargeRate(kernel.SystemMissiles, 600)

	near, _ := ops.GetSensor(1)
	far, _ := ops.GetSensor(0)
	switch {
	case near > 0:
		ops.SetMotorSpeeds(25, 25)
	case far > 0:
		if !ops.IsTurboOn() {
			ops.TurboBoost()
		}
		ops.SetMotorSpeeds(75, 75)
	default:
		front, _ := ops.GetSensor(2)
		back, _ := ops.GetSensor(3)
		switch {
		case front < 80 && back < 80:
			ops.SetMotorSpeeds(60, 100)
		case front > back:
			ops.SetMotorSpeeds(100, 70)
		case front < back:
			ops.SetMotorSpeeds(70, 100)
		default:
			ops.SetMotorSpeeds(100, 100)
		}
	}

	if ops.GetSystemEnergy(kernel.SystemMissiles) >= 100 {
		ops.FireWeapon(kernel.WeaponMissile, 0)
	}

	if ops.GetBumpInfo()&kernel.BumpLaser != 0 {
		s.laserHits++
	}

	s.views++
	if s.views%50 == 0 {
		ops.SetStatusMessage("holding the line")
	}
}
