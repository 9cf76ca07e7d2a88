// Package sampleagent provides illustrative robot behaviours, translated
// from original_source/RobotWars/robots/{Juan,bender}.c into the Go
// ConfigureFunc/ActionsFunc contract, used by cmd/server's default match.
package sampleagent

import (
	"fmt"
	"math"

	"robotwars/internal/kernel"
)

// Hunter hides while its shield is low, otherwise searches by radar and
// engages once both its radars lock on, firing laser and missile
// together (grounded on Juan.c's case_select/juan_hide/juan_find/
// juan_fight state machine).
type Hunter struct {
	views int
}

// NewHunter returns a fresh Hunter's Configure and Actions callbacks.
func NewHunter() (kernel.ConfigureFunc, kernel.ActionsFunc) {
	h := &Hunter{}
	return h.configure, h.actions
}

func (h *Hunter) configure(ops *kernel.Ops) {
	ops.AddSensor(0, kernel.SensorRadar, 40, 40, 0)
	ops.AddSensor(1, kernel.SensorRadar, -40, 40, 0)
	ops.AddSensor(2, kernel.SensorRange, 0, 0, 0)
}

func (h *Hunter) actions(ops *kernel.Ops, timePassedMS int) {
	h.views++

	shield := ops.GetSystemEnergy(kernel.SystemShields)
	if shield < 400 {
		h.hide(ops)
		return
	}

	ops.SetSensorStatus(0, true)
	ops.SetSensorStatus(1, true)
	radarTop, _ := ops.GetSensor(0)
	radarBottom, _ := ops.GetSensor(1)

	if radarTop > 0 && radarBottom > 0 {
		h.fight(ops)
		return
	}
	h.find(ops, radarTop, radarBottom)
}

func (h *Hunter) hide(ops *kernel.Ops) {
	ops.SetSensorStatus(0, false)
	ops.SetSensorStatus(1, false)
	ops.SetSensorStatus(2, true)

	ops.SetSystemChargePriorities([4]kernel.SystemKind{
		kernel.SystemSensors, kernel.SystemShields, kernel.SystemLasers, kernel.SystemMissiles,
	})
	output := ops.GetGeneratorOutput()
	ops.SetSystemChargeRate(kernel.SystemShields, output*0.6)
	ops.SetSystemChargeRate(kernel.SystemMissiles, output*0.2)
	ops.SetSystemChargeRate(kernel.SystemLasers, output*0.2)

	ops.SetMotorSpeeds(100, 100)
	if front, ok := ops.GetSensor(2); ok && front >= 0 && front < 50 {
		ops.SetMotorSpeeds(-100, 100)
	}

	if bump := ops.GetBumpInfo(); bump&(kernel.BumpMissile|kernel.BumpLaser) != 0 {
		if !ops.IsTurboOn() {
			ops.TurboBoost()
		} else {
			ops.SetMotorSpeeds(100, 100)
		}
	}
}

func (h *Hunter) find(ops *kernel.Ops, radarTop, radarBottom float64) {
	ops.SetSensorStatus(2, true)

	output := ops.GetGeneratorOutput()
	ops.SetSystemChargeRate(kernel.SystemShields, output*0.5)
	ops.SetSystemChargeRate(kernel.SystemMissiles, output*0.25)
	ops.SetSystemChargeRate(kernel.SystemLasers, output*0.25)

	ops.SetMotorSpeeds(100, 100)
	if radarTop > 0 {
		ops.SetMotorSpeeds(70, 100)
	}
	if radarBottom > 0 {
		ops.SetMotorSpeeds(100, 70)
	}

	front, ok := ops.GetSensor(2)
	if ok && front >= 0 && front < 40 {
		if gps, ok := ops.GetGPS(); ok {
			heading := math.Atan2(gps.Y-187.5, gps.X-187.5) * 180 / math.Pi
			if math.Abs(normalizeDelta(gps.Heading-heading)) > 10 {
				ops.SetMotorSpeeds(-100, 100)
			}
		}
	}
}

func (h *Hunter) fight(ops *kernel.Ops) {
	ops.SetSensorStatus(2, false)
	if ops.GetSystemEnergy(kernel.SystemLasers) >= 50 {
		ops.FireWeapon(kernel.WeaponLaser, 0)
	}
	if ops.GetSystemEnergy(kernel.SystemMissiles) >= 100 {
		ops.FireWeapon(kernel.WeaponMissile, 0)
	}
	ops.SetMotorSpeeds(100, 50)
	ops.SetStatusMessage(fmt.Sprintf("engaging, %d sweeps so far", h.views))
}

func normalizeDelta(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}
