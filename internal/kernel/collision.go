package kernel

import (
	"math"

	"robotwars/internal/config"
	"robotwars/internal/kernel/mask"
	"robotwars/internal/kernel/spatial"
)

// weaponSAPIDBase separates weapon ids from robot ids in the shared
// sweep-and-prune pass: robot i keeps id i, weapon j gets id base+j.
const weaponSAPIDBase = 1 << 20

// rasteriseRobotMasks rebuilds every live robot's collision mask from its
// current heading, before any collision or sensor query this tick.
func (e *Engine) rasteriseRobotMasks() {
	for _, r := range e.liveRobots() {
		r.Mask = e.buildRobotMask(r)
	}
}

// buildRobotMask returns the robot's collision sprite. A registered
// custom graphic is used as-is; the
// default is a disc of radius SHIELD_RAD in the robot's colour.
func (e *Engine) buildRobotMask(r *Robot) *mask.Mask {
	if r.CustomGraphic != nil {
		return r.CustomGraphic
	}
	diameterPx := int(math.Round(2 * e.cfg.Arena.ShieldRad * e.cfg.Arena.PxPerCM))
	m := mask.New(diameterPx, diameterPx)
	radiusPx := e.cfg.Arena.ShieldRad * e.cfg.Arena.PxPerCM
	m.FillDisc(diameterPx/2, diameterPx/2, radiusPx, colourFor(r.Color))
	return m
}

// runRobotCollisions resolves robot<->wall clamping then robot<->robot
// impulse exchange, in that order within C5.
func (e *Engine) runRobotCollisions() {
	e.clampRobotsToWalls()
	e.resolveRobotCollisions()
}

func (e *Engine) clampRobotsToWalls() {
	minX := e.cfg.Arena.ShieldRad
	maxX := e.cfg.Arena.WidthCM - e.cfg.Arena.ShieldRad - e.cfg.Arena.WallEps
	minY := e.cfg.Arena.ShieldRad
	maxY := e.cfg.Arena.HeightCM - e.cfg.Arena.ShieldRad - e.cfg.Arena.WallEps

	for _, r := range e.liveRobots() {
		clamped := false
		if r.X < minX {
			r.X = minX
			clamped = true
		} else if r.X > maxX {
			r.X = maxX
			clamped = true
		}
		if r.Y < minY {
			r.Y = minY
			clamped = true
		} else if r.Y > maxY {
			r.Y = maxY
			clamped = true
		}
		if clamped {
			r.Bump |= BumpWall
		}
	}
}

// resolveRobotCollisions finds every unordered pair of live robots closer
// than 2*SHIELD_RAD via the broad-phase grid, then applies the impulse
// exchange and shield-cross damage.
func (e *Engine) resolveRobotCollisions() {
	live := e.liveRobots()
	if len(live) < 2 {
		return
	}

	e.grid.Clear()
	for i, r := range live {
		e.grid.Insert(uint32(i), r.X, r.Y)
	}

	collideRad := 2 * e.cfg.Arena.ShieldRad
	for i, r := range live {
		for _, cand := range e.grid.QueryRadius(r.X, r.Y, collideRad) {
			j := int(cand)
			if j <= i {
				continue
			}
			other := live[j]
			d := math.Hypot(other.X-r.X, other.Y-r.Y)
			if d == 0 {
				fatalf("zero-distance collision between %q and %q", r.Name, other.Name)
			}
			if d < collideRad {
				e.applyRobotCollision(r, other, d)
			}
		}
	}
}

func (e *Engine) applyRobotCollision(a, b *Robot, d float64) {
	angle := math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi

	a.ImpulseHeading = boundAngle(angle + 180)
	a.ImpulseSpeed = e.cfg.Energy.ShieldCrossSpeed
	b.ImpulseHeading = boundAngle(angle)
	b.ImpulseSpeed = e.cfg.Energy.ShieldCrossSpeed

	a.DamageBank += e.cfg.Energy.ShieldCrossDamage
	b.DamageBank += e.cfg.Energy.ShieldCrossDamage

	a.Bump |= BumpRobot
	b.Bump |= BumpRobot

	e.game.SoundRequest[config.SoundRobotsCollide] = true
}

// runWeaponCollisions tests every in-flight weapon against the arena
// boundary and every robot but its owner, applying splash and removing
// any weapon that hits within the same tick. Candidate weapon/robot pairs are pre-reject-filtered
// through the sweep-and-prune broad phase before the pixel-exact mask
// test, in bounding-box-then-smallest-sprite order.
func (e *Engine) runWeaponCollisions() {
	if len(e.weapons) == 0 {
		return
	}
	live := e.liveRobots()
	hits := e.findWeaponVictims(live)

	remaining := e.weapons[:0]
	for i, w := range e.weapons {
		if e.weaponOutOfBounds(w) {
			e.applyWeaponImpact(w, w.X, w.Y, nil, live)
			continue
		}
		if victim, ok := hits[i]; ok {
			e.applyWeaponImpact(w, w.X, w.Y, victim, live)
			continue
		}
		remaining = append(remaining, w)
	}
	e.weapons = remaining
}

// findWeaponVictims runs one sweep-and-prune pass over every live robot
// and in-flight weapon's bounding box, then confirms each weapon/robot
// candidate pair with the pixel-exact mask.Overlap test. Returns, per
// weapon index, the first robot (other than the owner) it is confirmed
// to hit this tick.
func (e *Engine) findWeaponVictims(live []*Robot) map[int]*Robot {
	e.sap.Reset()
	for i, r := range live {
		e.sap.Add(spatial.AABB{
			ID:   uint32(i),
			MinX: r.X - e.cfg.Arena.ShieldRad, MinY: r.Y - e.cfg.Arena.ShieldRad,
			MaxX: r.X + e.cfg.Arena.ShieldRad, MaxY: r.Y + e.cfg.Arena.ShieldRad,
		})
	}
	for i, w := range e.weapons {
		e.sap.Add(spatial.AABB{
			ID:   uint32(weaponSAPIDBase + i),
			MinX: w.X - weaponSpriteRadiusCM, MinY: w.Y - weaponSpriteRadiusCM,
			MaxX: w.X + weaponSpriteRadiusCM, MaxY: w.Y + weaponSpriteRadiusCM,
		})
	}

	hits := make(map[int]*Robot, len(e.weapons))
	for _, pair := range e.sap.Sweep() {
		a, b := int(pair.A), int(pair.B)
		var weaponIdx, robotIdx int
		switch {
		case a >= weaponSAPIDBase && b < weaponSAPIDBase:
			weaponIdx, robotIdx = a-weaponSAPIDBase, b
		case b >= weaponSAPIDBase && a < weaponSAPIDBase:
			weaponIdx, robotIdx = b-weaponSAPIDBase, a
		default:
			continue // robot<->robot or weapon<->weapon: not this pass's concern
		}
		if _, already := hits[weaponIdx]; already {
			continue
		}
		w, r := e.weapons[weaponIdx], live[robotIdx]
		if r.ID == w.OwnerID {
			continue
		}
		wx, wy := e.maskOrigin(w.Mask, w.X, w.Y)
		rx, ry := e.maskOrigin(r.Mask, r.X, r.Y)
		if mask.Overlap(w.Mask, wx, wy, r.Mask, rx, ry) {
			hits[weaponIdx] = r
		}
	}
	return hits
}

func (e *Engine) weaponOutOfBounds(w *Weapon) bool {
	wx, wy := e.maskOrigin(w.Mask, w.X, w.Y)
	return wx < 0 || wy < 0 || wx+w.Mask.W > e.arenaPxW() || wy+w.Mask.H > e.arenaPxH()
}

// applyWeaponImpact applies the direct hit (if any), splash damage to
// every other non-owner robot within splashRange of the impact point,
// requests the impact sound, and marks the weapon destroyed.
func (e *Engine) applyWeaponImpact(w *Weapon, ix, iy float64, victim *Robot, live []*Robot) {
	victimID := -1
	if victim != nil {
		victim.Bump |= w.BumpValue
		victim.DamageBank += w.Energy
		victimID = victim.ID
	}
	e.eventLog.EmitSimple(EventWeaponImpact, e.tickCount, w.OwnerID, WeaponImpactPayload{Kind: w.Kind, VictimID: victimID, Damage: w.Energy})

	if w.SplashRange > 0 {
		for _, r := range live {
			if r.ID == w.OwnerID {
				continue
			}
			if victim != nil && r.ID == victim.ID {
				continue
			}
			if math.Hypot(r.X-ix, r.Y-iy) < w.SplashRange {
				r.DamageBank += w.SplashDamage
			}
		}
	}

	e.game.SoundRequest[w.ImpactSound] = true
	w.Destroyed = true
}
