package kernel

import "math"

// runMotion applies the impulse phase then the tread phase to every live
// robot.
func (e *Engine) runMotion() {
	for _, r := range e.liveRobots() {
		e.applyImpulse(r)
		e.applyTreads(r)
		r.Heading = boundAngle(r.Heading)
	}
}

// applyImpulse displaces the robot by its decaying external push.
func (e *Engine) applyImpulse(r *Robot) {
	if r.ImpulseSpeed == 0 {
		return
	}
	cps := float64(e.cfg.Sim.CalcsPerSec)
	rad := r.ImpulseHeading * math.Pi / 180
	r.X += (r.ImpulseSpeed / cps) * math.Cos(rad)
	r.Y += (r.ImpulseSpeed / cps) * math.Sin(rad)

	r.ImpulseSpeed -= e.cfg.Motion.FrictionSlowPS / cps
	if r.ImpulseSpeed < 0 {
		r.ImpulseSpeed = 0
	}
}

// applyTreads applies the turbo bonus, then one of the three
// differential-drive cases.
func (e *Engine) applyTreads(r *Robot) {
	cps := float64(e.cfg.Sim.CalcsPerSec)

	left, right := float64(r.LeftSpeed), float64(r.RightSpeed)
	if r.TurboTicks > 0 {
		bonus := e.cfg.Motion.TurboSpeedPct / 100
		left += left * bonus
		right += right * bonus
		r.TurboTicks--
	}

	lDist := e.cfg.Motion.MaxSpeed * left / (100 * cps)
	rDist := e.cfg.Motion.MaxSpeed * right / (100 * cps)

	switch {
	case lDist == rDist:
		// Equal speeds: straight-line translation along heading.
		rad := r.Heading * math.Pi / 180
		r.X += lDist * math.Cos(rad)
		r.Y += lDist * math.Sin(rad)

	case lDist == 0 || rDist == 0:
		e.rotateAboutStationaryTread(r, lDist, rDist)

	default:
		e.arcAboutICR(r, lDist, rDist)
	}
}

// rotateAboutCircle rotates the robot by rotationDeg about the point
// midRadius away from it, where startAngle is the direction from that
// centre to the robot, and advances heading by the same amount.
func (e *Engine) rotateAboutCircle(r *Robot, midRadius, startAngle, rotationDeg float64) {
	startRad := startAngle * math.Pi / 180
	x := midRadius * math.Cos(startRad)
	y := midRadius * math.Sin(startRad)

	rotRad := rotationDeg * math.Pi / 180
	u := x*math.Cos(rotRad) - y*math.Sin(rotRad)
	v := y*math.Cos(rotRad) + x*math.Sin(rotRad)

	r.X += u - x
	r.Y += v - y
	r.Heading += rotationDeg
}

// rotateAboutStationaryTread handles the case where exactly one tread is
// stopped: the robot orbits a circle of radius TREAD_DISTANCE/2 centred
// on the stationary tread.
func (e *Engine) rotateAboutStationaryTread(r *Robot, lDist, rDist float64) {
	denom := 2 * math.Pi * e.cfg.Motion.TreadDistance
	midRadius := e.cfg.Motion.TreadDistance / 2

	if rDist == 0 {
		// Right tread stopped: robot turns right about it.
		e.rotateAboutCircle(r, midRadius, r.Heading+90, -lDist*360/denom)
		return
	}
	// Left tread stopped: robot turns left about it.
	e.rotateAboutCircle(r, midRadius, r.Heading+270, rDist*360/denom)
}

// arcAboutICR handles both treads moving at different speeds: the robot
// sweeps an arc about an instantaneous centre of rotation offset toward
// the slower tread. Equal-magnitude opposite-sign treads (pure rotation
// in place) fall out of the same formula without a separate case.
func (e *Engine) arcAboutICR(r *Robot, lDist, rDist float64) {
	if math.Abs(lDist) > math.Abs(rDist) {
		// Left tread faster: robot turns right about a centre offset
		// toward the right tread.
		innerRadius := rDist * e.cfg.Motion.TreadDistance / (lDist - rDist)
		midRadius := innerRadius + e.cfg.Motion.TreadDistance/2
		rotationDeg := -rDist * 360 / (2 * math.Pi * innerRadius)
		e.rotateAboutCircle(r, midRadius, r.Heading+90, rotationDeg)
		return
	}
	// Right tread faster: robot turns left about a centre offset toward
	// the left tread.
	innerRadius := lDist * e.cfg.Motion.TreadDistance / (rDist - lDist)
	midRadius := innerRadius + e.cfg.Motion.TreadDistance/2
	rotationDeg := lDist * 360 / (2 * math.Pi * innerRadius)
	e.rotateAboutCircle(r, midRadius, r.Heading+270, rotationDeg)
}
