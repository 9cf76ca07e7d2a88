package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEnergyDistributionNeverExceedsPool is the energy-conservation
// property: for any priority permutation, the sum of one tick's
// charge-rate consumption across all four systems cannot exceed the
// robot's generator pool.
func TestEnergyDistributionNeverExceedsPool(t *testing.T) {
	perms := [][4]SystemKind{
		{SystemShields, SystemSensors, SystemLasers, SystemMissiles},
		{SystemMissiles, SystemLasers, SystemSensors, SystemShields},
		{SystemSensors, SystemMissiles, SystemShields, SystemLasers},
		{SystemLasers, SystemShields, SystemMissiles, SystemSensors},
	}
	for _, perm := range perms {
		e := newTestEngine()
		r := mustRegister(t, e, "budgeted", 100, 100, 0)
		r.Priorities = perm
		r.ShieldChargeRate = e.cfg.Energy.MaxShieldChargeRate
		r.Weapons[WeaponLaser].ChargeRate = e.cfg.Weapons.Laser.MaxChargeRate
		r.Weapons[WeaponMissile].ChargeRate = e.cfg.Weapons.Missile.MaxChargeRate
		r.Sensors[0] = Sensor{Type: SensorRadar, On: true}
		r.Sensors[1] = Sensor{Type: SensorRange, On: true}

		pool := float64(r.GeneratorStructure) * e.cfg.Energy.GeneratorCapacity / float64(e.cfg.Energy.MaxGeneratorStruct)
		shieldBefore := r.Shield
		laserBefore := r.Weapons[WeaponLaser].ChargeEnergy
		missileBefore := r.Weapons[WeaponMissile].ChargeEnergy

		e.runEnergy()

		perMin := float64(e.cfg.Sim.CalcsPerSec * 60)
		shieldUsed := (r.Shield - shieldBefore) * perMin
		laserUsed := (r.Weapons[WeaponLaser].ChargeEnergy - laserBefore) * perMin
		missileUsed := (r.Weapons[WeaponMissile].ChargeEnergy - missileBefore) * perMin
		sensorUsed := 0.0
		for _, s := range r.Sensors {
			if !s.Powered {
				continue
			}
			if s.Type == SensorRadar {
				sensorUsed += e.cfg.Sensors.RadarEnergyCost
			} else if s.Type == SensorRange {
				sensorUsed += e.cfg.Sensors.RangeEnergyCost
			}
		}

		total := shieldUsed + laserUsed + missileUsed + sensorUsed
		require.LessOrEqualf(t, total, pool+1e-6, "permutation %v overran the generator pool", perm)
	}
}

// TestSensorsStarveInCreationOrder checks distributeSensors powers
// earlier slots first when the pool cannot cover every on-sensor.
func TestSensorsStarveInCreationOrder(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "starved", 100, 100, 0)
	for i := range r.Sensors {
		r.Sensors[i] = Sensor{Type: SensorRadar, On: true}
	}

	pool := e.cfg.Sensors.RadarEnergyCost*2 + 1
	e.distributeSensors(r, pool)

	require.True(t, r.Sensors[0].Powered)
	require.True(t, r.Sensors[1].Powered)
	require.False(t, r.Sensors[2].Powered, "pool should have starved the third sensor")
	require.False(t, r.Sensors[3].Powered, "pool should have starved the fourth sensor")
}

// TestSensorsAccumulateCostEvenWhenUnpowered checks that an unaffordable
// sensor's cost still counts against the running sum, so a later cheaper
// sensor does not wrongly get powered once the pool is already spent.
func TestSensorsAccumulateCostEvenWhenUnpowered(t *testing.T) {
	e := newTestEngine()
	e.cfg.Sensors.RadarEnergyCost = 8
	e.cfg.Sensors.RangeEnergyCost = 1
	r := mustRegister(t, e, "pinched", 100, 100, 0)
	r.Sensors[0] = Sensor{Type: SensorRadar, On: true}
	r.Sensors[1] = Sensor{Type: SensorRadar, On: true}
	r.Sensors[2] = Sensor{Type: SensorRange, On: true}

	e.distributeSensors(r, 10)

	require.True(t, r.Sensors[0].Powered)
	require.False(t, r.Sensors[1].Powered, "the second radar can't fit in the remaining pool")
	require.False(t, r.Sensors[2].Powered, "the cheap range sensor must not be powered once the running sum already exceeds pool")
}
