package kernel

import "testing"

// TestPriorityPermutationRejection covers boundary scenario 6: a
// duplicate-containing permutation is rejected and leaves state
// unchanged.
func TestPriorityPermutationRejection(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "prio", 100, 100, 0)
	original := r.Priorities
	ops := &Ops{e: e, robotID: r.ID}

	ok := ops.SetSystemChargePriorities([4]SystemKind{SystemShields, SystemShields, SystemLasers, SystemMissiles})
	if ok {
		t.Fatal("expected rejection of a permutation containing a duplicate")
	}
	if r.Priorities != original {
		t.Errorf("expected priorities unchanged, got %v", r.Priorities)
	}

	ok = ops.SetSystemChargePriorities([4]SystemKind{SystemMissiles, SystemLasers, SystemSensors, SystemShields})
	if !ok {
		t.Fatal("expected a genuine permutation to be accepted")
	}
	if r.Priorities[0] != SystemMissiles {
		t.Errorf("expected new priorities to take effect, got %v", r.Priorities)
	}
}

// TestFireUnderMinEnergy covers boundary scenario 7: an under-charged
// fire attempt fails, zeroes the charge as a penalty, and queues no
// weapon.
func TestFireUnderMinEnergy(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "undercharged", 100, 100, 0)
	ops := &Ops{e: e, robotID: r.ID}

	r.Weapons[WeaponLaser].ChargeEnergy = e.cfg.Weapons.Laser.MinEnergy - 1

	ok := ops.FireWeapon(WeaponLaser, 0)
	if ok {
		t.Fatal("expected fire_weapon to fail under minimum charge")
	}
	if got := ops.GetSystemEnergy(SystemLasers); got != 0 {
		t.Errorf("expected laser charge zeroed as penalty, got %v", got)
	}
	if len(e.weapons) != 0 {
		t.Errorf("expected no weapon in flight, got %d", len(e.weapons))
	}
}

// TestFireWeaponSuccess checks a well-charged fire creates an in-flight
// weapon carrying the delivered energy and rasterised mask.
func TestFireWeaponSuccess(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "shooter", 100, 100, 0)
	ops := &Ops{e: e, robotID: r.ID}

	r.Weapons[WeaponLaser].ChargeEnergy = e.cfg.Weapons.Laser.MinEnergy

	if !ops.FireWeapon(WeaponLaser, 0) {
		t.Fatal("expected fire_weapon to succeed")
	}
	if len(e.weapons) != 1 {
		t.Fatalf("expected exactly one weapon in flight, got %d", len(e.weapons))
	}
	w := e.weapons[0]
	if w.OwnerID != r.ID {
		t.Errorf("expected weapon owner %d, got %d", r.ID, w.OwnerID)
	}
	if w.Mask == nil {
		t.Error("expected weapon to carry a rasterised mask")
	}
	if w.Energy != e.cfg.Weapons.Laser.MinEnergy*(1+e.cfg.Weapons.Laser.BonusEnergy) {
		t.Errorf("expected delivered energy to match charge*(1+bonus), got %v", w.Energy)
	}
}

// TestBumpInfoClearsOnRead is the get_bump_info round-trip property:
// the second consecutive read with no intervening event returns 0.
func TestBumpInfoClearsOnRead(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "bumped", 100, 100, 0)
	r.Bump = BumpWall | BumpRobot
	ops := &Ops{e: e, robotID: r.ID}

	if got := ops.GetBumpInfo(); got != BumpWall|BumpRobot {
		t.Errorf("expected first read to return accumulated bits, got %#x", got)
	}
	if got := ops.GetBumpInfo(); got != 0 {
		t.Errorf("expected second read to return 0, got %#x", got)
	}
}
