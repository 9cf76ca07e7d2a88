package kernel

import (
	"math"

	"robotwars/internal/kernel/mask"
)

// weaponSpriteRadiusCM is the fixed collision-sprite radius for any
// in-flight weapon; the original constants file gives projectiles no
// separate visual size, so both kinds share one small disc.
const weaponSpriteRadiusCM = 1.0

// buildWeaponMask renders the small disc sprite used for pixel-perfect
// impact tests. The sprite is a disc, so orientation does not change its
// pixels; it is built once at fire time.
func (e *Engine) buildWeaponMask(kind WeaponType) *mask.Mask {
	radiusPx := weaponSpriteRadiusCM * e.cfg.Arena.PxPerCM
	diameterPx := int(math.Round(2 * radiusPx))
	if diameterPx < 1 {
		diameterPx = 1
	}
	m := mask.New(diameterPx, diameterPx)
	m.FillDisc(diameterPx/2, diameterPx/2, radiusPx, uint8(kind)+1)
	return m
}

// runWeaponFlight displaces every in-flight weapon along its heading by
// one tick's travel distance.
func (e *Engine) runWeaponFlight() {
	cps := float64(e.cfg.Sim.CalcsPerSec)
	for _, w := range e.weapons {
		rad := w.Heading * math.Pi / 180
		w.X += (w.Speed / cps) * math.Cos(rad)
		w.Y += (w.Speed / cps) * math.Sin(rad)
	}
	// Missile smoke trail is a particle request only; the particle system
	// itself is an external rendering collaborator, out of scope here.
}
