package kernel

// runEnergy distributes each robot's generator pool across its four
// systems in priority order, capping each at its max and powering
// sensors in creation order under starvation.
func (e *Engine) runEnergy() {
	for _, r := range e.liveRobots() {
		pool := float64(r.GeneratorStructure) * e.cfg.Energy.GeneratorCapacity / float64(e.cfg.Energy.MaxGeneratorStruct)

		// Sensors left unreached once the pool runs out stay unpowered.
		for i := range r.Sensors {
			r.Sensors[i].Powered = false
		}
		for _, kind := range r.Priorities {
			if pool <= 0 {
				break
			}
			pool = e.distributeOne(r, kind, pool)
		}
	}
}

// distributeOne applies one system kind's share of pool and returns the
// remaining pool.
func (e *Engine) distributeOne(r *Robot, kind SystemKind, pool float64) float64 {
	switch kind {
	case SystemShields:
		return e.distributeCapacitive(pool, r.ShieldChargeRate, &r.Shield, e.cfg.Energy.MaxShieldEnergy)
	case SystemLasers:
		ws := &r.Weapons[WeaponLaser]
		return e.distributeCapacitive(pool, ws.ChargeRate, &ws.ChargeEnergy, ws.MaxEnergy)
	case SystemMissiles:
		ws := &r.Weapons[WeaponMissile]
		return e.distributeCapacitive(pool, ws.ChargeRate, &ws.ChargeEnergy, ws.MaxEnergy)
	case SystemSensors:
		return e.distributeSensors(r, pool)
	}
	return pool
}

// distributeCapacitive implements the shared distribution rule for a single
// capacitive store (shield, laser charge, or missile charge).
func (e *Engine) distributeCapacitive(pool, requestedRate float64, store *float64, max float64) float64 {
	if *store >= max {
		return pool // at cap: skip, no energy consumed
	}
	used := requestedRate
	if used > pool {
		used = pool
	}
	*store += used / float64(e.cfg.Sim.CalcsPerSec*60)
	if *store > max {
		*store = max
	}
	return pool - used
}

// distributeSensors sweeps sensor slots in creation (array) order,
// accumulating each on-sensor's cost into a running sum regardless of
// whether it fits; a sensor is powered iff the running sum is still
// within pool once its own cost has been added.
func (e *Engine) distributeSensors(r *Robot, pool float64) float64 {
	used := 0.0
	for i := range r.Sensors {
		s := &r.Sensors[i]
		s.Powered = false
		if s.Type == SensorNone || !s.On {
			continue
		}
		cost := e.cfg.Sensors.RangeEnergyCost
		if s.Type == SensorRadar {
			cost = e.cfg.Sensors.RadarEnergyCost
		}
		used += cost
		s.Powered = used <= pool
	}
	return pool - used
}
