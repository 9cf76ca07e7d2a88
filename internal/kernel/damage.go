package kernel

import (
	"math"

	"robotwars/internal/config"
)

// runDamage drains each live robot's damage bank through the shield-leak
// model and destroys any robot whose structure reaches zero.
func (e *Engine) runDamage() {
	for _, r := range e.liveRobots() {
		if r.DamageBank <= 0 {
			continue
		}
		e.applyDamage(r)
		if r.Destroyed {
			e.eventLog.EmitSimple(EventRobotDestroyed, e.tickCount, r.ID, DestroyedPayload{Name: r.Name})
		}
	}
}

func (e *Engine) applyDamage(r *Robot) {
	leakRatio := 0.0
	if r.Shield <= e.cfg.Energy.LeakThreshold {
		leakRatio = 1 - r.Shield/e.cfg.Energy.LeakThreshold
	}

	internal := r.DamageBank * leakRatio
	external := r.DamageBank - internal

	if external > r.Shield {
		internal += external - r.Shield
		r.Shield = 0
	} else {
		r.Shield -= external
	}

	r.GeneratorStructure -= int(math.Round(internal))
	r.DamageBank = 0

	if r.GeneratorStructure <= 0 {
		e.destroyRobot(r)
	}
}

// destroyRobot unlinks a robot from the live set: it stays in e.robots
// (a stable-id vector, not an intrusive list) but Destroyed excludes it
// from every live-robot iteration from the next subsystem onward.
func (e *Engine) destroyRobot(r *Robot) {
	r.GeneratorStructure = 0
	r.Destroyed = true
	r.Mask = nil
	r.CustomGraphic = nil
	for i := range r.Sensors {
		r.Sensors[i].On = false
		r.Sensors[i].Powered = false
		r.Sensors[i].Mask = nil
	}
	e.game.SoundRequest[config.SoundRobotExplode] = true
}
