// Package kernel implements the deterministic robot-combat simulation
// kernel: the entity model, the per-tick energy, motion, collision,
// sensor, weapon and damage subsystems, and the tick scheduler that
// drives them and dispatches agent callbacks.
package kernel

import (
	"robotwars/internal/kernel/mask"
	"robotwars/internal/kernel/spatial"
)

// SystemKind identifies one of the four energy-consuming systems a
// robot's generator feeds. Order matches the original
// program's SYSTEM enum, which set_system_charge_priorities permutations
// are validated against.
type SystemKind int

const (
	SystemShields SystemKind = iota
	SystemSensors
	SystemLasers
	SystemMissiles
	numSystemKinds = 4
)

// SensorType identifies a sensor slot's function.
type SensorType int

const (
	SensorNone SensorType = iota
	SensorRadar
	SensorRange
)

// WeaponType identifies a mounted or in-flight weapon's kind.
type WeaponType int

const (
	WeaponMissile WeaponType = iota
	WeaponLaser
	WeaponNone
)

// Bump register bits.
const (
	BumpWall    uint8 = 0x01
	BumpRobot   uint8 = 0x02
	BumpMissile uint8 = 0x04
	BumpLaser   uint8 = 0x08
)

// GameState is the global match state machine.
type GameState int

const (
	StateSetup GameState = iota
	StateFighting
	StateOver
)

// Color is a robot's display colour, a small fixed palette to keep the
// rendering contract stable across runs.
type Color int

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
	ColorYellow
	ColorPurple
	ColorTurquoise
	ColorWhite
)

// Sensor is one slot in a robot's sensor array.
type Sensor struct {
	Type    SensorType
	Angle   float64 // mount angle, relative to body forward
	Width   float64 // arc width in degrees, radar only
	Range   float64 // cm
	On      bool    // agent-controlled
	Powered bool    // engine-controlled, recomputed each tick by C3
	Data    float64 // last sample; -1 if unreadable this tick
	DrawX   int     // draw offset for the radar mask, radar only
	DrawY   int
	Mask    *mask.Mask // radar fan mask, nil for range/empty slots
}

// WeaponSystem is a weapon mounted on a robot, charging toward a fire
// threshold at ChargeRate.
type WeaponSystem struct {
	Kind         WeaponType
	MaxAngle     float64
	MinEnergy    float64
	MaxEnergy    float64
	BonusEnergy  float64
	SplashRange  float64
	SplashDamage float64
	Speed        float64
	ChargeRate   float64 // requested charge rate, units/min
	ChargeEnergy float64 // accumulated charge
	BumpValue    uint8
	FiringSound  int
	ImpactSound  int
}

// Weapon is a fired, in-flight projectile.
type Weapon struct {
	Kind         WeaponType
	OwnerID      int
	X, Y         float64
	Heading      float64
	Speed        float64
	Energy       float64 // delivered energy = charge * (1 + bonus)
	SplashRange  float64
	SplashDamage float64
	BumpValue    uint8
	ImpactSound  int
	Mask         *mask.Mask
	Destroyed    bool
}

// ConfigureFunc is invoked once during setup for the current robot; it
// may call AddSensor / SetSystemChargePriorities.
type ConfigureFunc func(ops *Ops)

// ActionsFunc is invoked every OrderFreq ticks for the current robot,
// receiving the elapsed time in milliseconds since the previous call.
type ActionsFunc func(ops *Ops, timePassedMS int)

// Robot is a single combatant.
type Robot struct {
	ID    int // stable identity; also the display-ordering index
	Name  string
	Color Color

	X, Y    float64
	Heading float64 // degrees, standard-math orientation, kept in [0,360)

	LeftSpeed, RightSpeed int // tread commands, [-100,100]

	TurboTicks int // remaining turbo-boost duration, in ticks

	ImpulseHeading float64
	ImpulseSpeed   float64

	Bump uint8 // accumulated bump bits since last get_bump_info

	Shield           float64
	ShieldChargeRate float64 // requested charge rate, units/min

	GeneratorStructure int
	DamageBank         float64

	StatusMessage string

	Sensors [4]Sensor
	// Weapons is indexed by WeaponMissile/WeaponLaser, matching the
	// original program's fixed MISSILE_PORT=0 / LASER_PORT=1 convention.
	Weapons [2]WeaponSystem

	Priorities [numSystemKinds]SystemKind // permutation governing C3 order

	Mailbox *spatial.RingQueue

	Mask          *mask.Mask // re-rasterised each tick before collision queries
	CustomGraphic *mask.Mask // optional, nil if none registered

	Destroyed bool

	Configure ConfigureFunc
	Actions   ActionsFunc
}

// Game holds state global to the match.
type Game struct {
	State        GameState
	SoundRequest [8]bool // set by the kernel, cleared by the sound collaborator
}
