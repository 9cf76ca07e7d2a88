package kernel

import (
	"math"

	"robotwars/internal/config"
)

// Ops is the explicit dispatch context passed to an agent callback: it
// replaces the original program's module-level curRobot pointer while
// keeping the contract identical — exactly one robot is addressable for
// the duration of one callback, via the robotID this Ops instance closes
// over.
type Ops struct {
	e       *Engine
	robotID int
}

func (o *Ops) self() *Robot {
	r := o.e.findRobotByID(o.robotID)
	if r == nil {
		fatalf("operation called for a robot that no longer exists")
	}
	return r
}

// SetMotorSpeeds clamps each value to [-100,100] and stores it; a pure,
// always-succeeding store.
func (o *Ops) SetMotorSpeeds(left, right int) {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	r := o.self()
	r.LeftSpeed = clampInt(left, -100, 100)
	r.RightSpeed = clampInt(right, -100, 100)
}

// TurboBoost deducts TURBO_COST from shield and starts the boost timer
// if the robot has enough shield energy; returns false otherwise.
func (o *Ops) TurboBoost() bool {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	r := o.self()
	if r.Shield <= o.e.cfg.Motion.TurboCost {
		return false
	}
	r.Shield -= o.e.cfg.Motion.TurboCost
	r.TurboTicks = int(o.e.cfg.Motion.TurboTimeSec * float64(o.e.cfg.Sim.CalcsPerSec))
	o.e.game.SoundRequest[config.SoundTurboBoost] = true
	return true
}

// IsTurboOn reports whether the turbo-boost timer is still running.
func (o *Ops) IsTurboOn() bool {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	return o.self().TurboTicks > 0
}

// GPSInfo is the value returned by GetGPS.
type GPSInfo struct {
	X, Y, Heading float64
}

// GetGPS deducts GPS_COST from shield and returns the robot's own
// position/heading, or (zero, false) if shield energy is insufficient.
func (o *Ops) GetGPS() (GPSInfo, bool) {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	r := o.self()
	if r.Shield <= o.e.cfg.Sensors.GPSCost {
		return GPSInfo{}, false
	}
	r.Shield -= o.e.cfg.Sensors.GPSCost
	return GPSInfo{X: r.X, Y: r.Y, Heading: r.Heading}, true
}

// GetSensor returns the last sample for the given port, or (-1, false)
// if the port is invalid, empty, off, or unpowered.
func (o *Ops) GetSensor(port int) (float64, bool) {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	r := o.self()
	if port < 0 || port >= len(r.Sensors) {
		return -1, false
	}
	s := &r.Sensors[port]
	if s.Type == SensorNone || !s.On || !s.Powered {
		return -1, false
	}
	return s.Data, true
}

// SetSensorStatus turns a sensor on or off.
func (o *Ops) SetSensorStatus(port int, on bool) {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	r := o.self()
	if port < 0 || port >= len(r.Sensors) {
		return
	}
	r.Sensors[port].On = on
}

// AddSensor installs a sensor in the given port during Setup, replacing
// whatever the slot held; it is a configuration-time-only call.
func (o *Ops) AddSensor(port int, kind SensorType, angle, width, rng float64) bool {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	if o.e.game.State != StateSetup {
		fatalf("add_sensor called outside Setup state")
	}
	r := o.self()
	if port < 0 || port >= len(r.Sensors) {
		return false
	}
	if kind == SensorRadar {
		width = clampFloat(width, o.e.cfg.Sensors.MinRadarArc, o.e.cfg.Sensors.MaxRadarArc)
		rng = clampFloat(rng, o.e.cfg.Sensors.RadarMinRange, o.e.cfg.Sensors.RadarMaxRange)
	} else if kind == SensorRange {
		rng = o.e.cfg.Sensors.RangeMaxRange
	}
	r.Sensors[port] = Sensor{Type: kind, Angle: angle, Width: width, Range: rng}
	return true
}

// FireWeapon validates aim and minimum charge and, on success, creates
// an in-flight Weapon carrying the delivered energy; on an under-charged
// fire attempt it zeroes the charge as a penalty and returns false.
func (o *Ops) FireWeapon(kind WeaponType, aim float64) bool {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	r := o.self()
	ws := &r.Weapons[kind]

	aim = normalizeSigned(aim)
	if math.Abs(aim) > ws.MaxAngle {
		return false
	}
	if ws.ChargeEnergy < ws.MinEnergy {
		ws.ChargeEnergy = 0 // penalty
		return false
	}

	delivered := ws.ChargeEnergy * (1 + ws.BonusEnergy)
	heading := boundAngle(r.Heading - aim)

	w := &Weapon{
		Kind:         kind,
		OwnerID:      r.ID,
		X:            r.X,
		Y:            r.Y,
		Heading:      heading,
		Speed:        ws.Speed,
		Energy:       delivered,
		SplashRange:  ws.SplashRange,
		SplashDamage: ws.SplashDamage,
		BumpValue:    ws.BumpValue,
		ImpactSound:  ws.ImpactSound,
		Mask:         o.e.buildWeaponMask(kind),
	}
	ws.ChargeEnergy = 0

	if len(o.e.weapons) >= o.e.cfg.Limits.MaxInFlightWeapon {
		return false
	}
	o.e.weapons = append(o.e.weapons, w)
	o.e.game.SoundRequest[ws.FiringSound] = true
	o.e.eventLog.EmitSimple(EventWeaponFired, o.e.tickCount, r.ID, WeaponFiredPayload{Kind: kind, Heading: heading, Energy: delivered})
	return true
}

// GetSystemEnergy returns the current store for a capacitive system
// (shields, laser charge, missile charge); sensors have no single
// "charge" value, so 0 is returned for SystemSensors.
func (o *Ops) GetSystemEnergy(kind SystemKind) float64 {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	r := o.self()
	switch kind {
	case SystemShields:
		return r.Shield
	case SystemLasers:
		return r.Weapons[WeaponLaser].ChargeEnergy
	case SystemMissiles:
		return r.Weapons[WeaponMissile].ChargeEnergy
	default:
		return 0
	}
}

// SetSystemChargeRate sets the requested charge rate for a system,
// clamped to [0, per-kind max].
func (o *Ops) SetSystemChargeRate(kind SystemKind, rate float64) {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	r := o.self()
	switch kind {
	case SystemShields:
		r.ShieldChargeRate = clampFloat(rate, 0, o.e.cfg.Energy.MaxShieldChargeRate)
	case SystemLasers:
		r.Weapons[WeaponLaser].ChargeRate = clampFloat(rate, 0, o.e.cfg.Weapons.Laser.MaxChargeRate)
	case SystemMissiles:
		r.Weapons[WeaponMissile].ChargeRate = clampFloat(rate, 0, o.e.cfg.Weapons.Missile.MaxChargeRate)
	}
}

// SetSystemChargePriorities atomically replaces the priority permutation
// iff the argument is a permutation of the four system kinds; otherwise
// it is a no-op returning false.
func (o *Ops) SetSystemChargePriorities(perm [4]SystemKind) bool {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	var seen [numSystemKinds]bool
	for _, k := range perm {
		if k < 0 || int(k) >= numSystemKinds || seen[k] {
			return false
		}
		seen[k] = true
	}
	o.self().Priorities = perm
	return true
}

// GetBumpInfo returns the accumulated bump bits and clears them: two
// consecutive calls with no intervening events return 0 on the second.
func (o *Ops) GetBumpInfo() uint8 {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	r := o.self()
	b := r.Bump
	r.Bump = 0
	return b
}

// GetGeneratorStructure returns the robot's remaining structure.
func (o *Ops) GetGeneratorStructure() int {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	return o.self().GeneratorStructure
}

// GetGeneratorOutput returns the robot's current generator pool in
// units/min.
func (o *Ops) GetGeneratorOutput() float64 {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	r := o.self()
	return float64(r.GeneratorStructure) * o.e.cfg.Energy.GeneratorCapacity / float64(o.e.cfg.Energy.MaxGeneratorStruct)
}

// SendMessage best-effort delivers a 32-bit payload to a live robot by
// name; returns false if unknown, destroyed, the sender is rate-limited,
// or the recipient's mailbox is full.
func (o *Ops) SendMessage(toName string, payload int32) bool {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	sender := o.self()
	if !o.e.mailLimiter.allow(sender.Name) {
		return false
	}
	dest := o.e.findRobotByName(toName)
	if dest == nil {
		return false
	}
	return dest.Mailbox.Push(payload)
}

// GetMessage pops the oldest message from the current robot's own
// mailbox, FIFO order.
func (o *Ops) GetMessage() (int32, bool) {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	return o.self().Mailbox.Pop()
}

// SetStatusMessage sets the robot's status text; a string exceeding
// MAX_STATUS_LEN is a fatal configuration error.
func (o *Ops) SetStatusMessage(msg string) {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()
	if len(msg) > o.e.cfg.Limits.MaxStatusLen {
		fatalf("status message exceeds STATUS_MSG_LEN")
	}
	o.self().StatusMessage = msg
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeSigned folds a fire-weapon aim angle into (-360, 360) the way
// the original program's BoundAngle is documented to.
func normalizeSigned(angle float64) float64 {
	return math.Mod(angle, 360)
}

// boundAngle normalises a heading to [0, 360). The original program's
// BoundAngle reads `while(angle < 360) angle += 360`, which only
// terminates if the caller already passed an angle >= 360 — almost
// certainly a bug (likely intended `< 0`). We implement the corrected,
// always-terminating form and record the discrepancy here rather than
// reproducing it.
func boundAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}
