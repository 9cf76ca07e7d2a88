package kernel

import "testing"

// TestLaserHitsSeatedTarget covers boundary scenario 4: a laser fired
// from A at a stationary B within range lands within a bounded tick
// budget, damages only B, and is removed from flight on impact.
func TestLaserHitsSeatedTarget(t *testing.T) {
	e := newTestEngine()
	a := mustRegister(t, e, "A", 100, 100, 0)
	b := mustRegister(t, e, "B", 140, 100, 0)

	a.Weapons[WeaponLaser].ChargeEnergy = e.cfg.Weapons.Laser.MinEnergy
	ops := &Ops{e: e, robotID: a.ID}
	if !ops.FireWeapon(WeaponLaser, 0) {
		t.Fatal("expected fire_weapon to succeed")
	}

	hit := false
	for i := 0; i < 12 && !hit; i++ {
		e.rasteriseRobotMasks()
		e.runWeaponFlight()
		e.runWeaponCollisions()
		if len(e.weapons) == 0 {
			hit = true
		}
	}

	if !hit {
		t.Fatal("expected the weapon to hit within 12 ticks")
	}
	if b.DamageBank < e.cfg.Weapons.Laser.MinEnergy {
		t.Errorf("expected B's damage bank to receive at least MIN energy, got %v", b.DamageBank)
	}
	if a.DamageBank != 0 {
		t.Errorf("expected A unaffected by its own shot, got damage bank %v", a.DamageBank)
	}
}

// TestWeaponNeverHitsOwner checks that even when a weapon's flight path
// crosses back over its owner's own mask, no damage is applied to the
// owner.
func TestWeaponNeverHitsOwner(t *testing.T) {
	e := newTestEngine()
	a := mustRegister(t, e, "self", 100, 100, 0)

	a.Weapons[WeaponMissile].ChargeEnergy = e.cfg.Weapons.Missile.MinEnergy
	ops := &Ops{e: e, robotID: a.ID}
	if !ops.FireWeapon(WeaponMissile, 0) {
		t.Fatal("expected fire_weapon to succeed")
	}
	e.weapons[0].X, e.weapons[0].Y = a.X, a.Y

	for i := 0; i < 5; i++ {
		e.rasteriseRobotMasks()
		e.runWeaponCollisions()
	}

	if a.DamageBank != 0 {
		t.Errorf("expected owner never damaged by its own weapon, got %v", a.DamageBank)
	}
}
