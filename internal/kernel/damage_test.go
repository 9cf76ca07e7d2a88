package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestShieldLeakThreshold covers boundary scenario 5: a robot below the
// leak threshold takes partial internal damage proportional to how far
// its shield has fallen below LEAK_THRESHOLD.
func TestShieldLeakThreshold(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "leaky", 100, 100, 0)
	r.Shield = 300
	r.DamageBank = 100
	startStructure := r.GeneratorStructure

	e.applyDamage(r)

	require.InDelta(t, 250, r.Shield, 1e-9)
	require.Equal(t, startStructure-50, r.GeneratorStructure)
	require.Zero(t, r.DamageBank)
}

// TestNoLeakAboveThreshold checks a shield above LEAK_THRESHOLD absorbs
// all damage with no structure loss, so long as it has enough charge.
func TestNoLeakAboveThreshold(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "shielded", 100, 100, 0)
	r.Shield = e.cfg.Energy.LeakThreshold + 200
	r.DamageBank = 100
	startStructure := r.GeneratorStructure

	e.applyDamage(r)

	require.Equal(t, startStructure, r.GeneratorStructure, "no structure loss above leak threshold")
}

// TestDamageOverwhelmsShieldSpillsToStructure checks damage exceeding
// the shield's own charge spills the excess into the structure even at
// zero leak ratio.
func TestDamageOverwhelmsShieldSpillsToStructure(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "overwhelmed", 100, 100, 0)
	r.Shield = e.cfg.Energy.LeakThreshold + 10
	r.DamageBank = e.cfg.Energy.LeakThreshold + 200
	startStructure := r.GeneratorStructure

	e.applyDamage(r)

	require.Zero(t, r.Shield, "expected shield fully drained")
	require.Less(t, r.GeneratorStructure, startStructure, "expected structure loss from shield overflow")
}

// TestStructureZeroDestroysRobot checks a robot is destroyed and
// excluded from every live-robot query once structure reaches zero.
func TestStructureZeroDestroysRobot(t *testing.T) {
	e := newTestEngine()
	r := mustRegister(t, e, "doomed", 100, 100, 0)
	r.Shield = 0
	r.GeneratorStructure = 10
	r.DamageBank = 1000

	e.runDamage()

	require.True(t, r.Destroyed)
	require.Zero(t, r.GeneratorStructure)
	require.Empty(t, e.liveRobots(), "destroyed robot must be excluded from the live set")
}
