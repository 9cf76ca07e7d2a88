package kernel

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"robotwars/internal/config"
	"robotwars/internal/kernel/mask"
	"robotwars/internal/kernel/spatial"
)

// Engine is the mutex-guarded simulation kernel: one authoritative tick
// method advancing every subsystem in a fixed order, driven by a
// wall-clock ticker off a time.Ticker.
type Engine struct {
	mu sync.Mutex

	cfg config.KernelConfig

	robots  []*Robot
	weapons []*Weapon

	game Game

	grid *spatial.Grid
	sap  *spatial.SweepAndPrune
	rank *spatial.RankList

	graphics *mask.GraphicCache

	tickCount        uint64
	ticksSinceOrders int

	rng     *rand.Rand
	rngSeed int64

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	eventLog     *EventLog
	snapshotPool *SnapshotPool

	mailLimiter *mailRateLimiter

	onFatal func(err *FatalError)
}

// NewEngine creates a kernel ready to accept robot registrations.
func NewEngine(cfg config.KernelConfig) *Engine {
	seed := time.Now().UnixNano()
	return &Engine{
		cfg:          cfg,
		robots:       make([]*Robot, 0, cfg.Limits.MaxRobots),
		weapons:      make([]*Weapon, 0, cfg.Limits.MaxInFlightWeapon),
		game:         Game{State: StateSetup},
		grid:         spatial.NewGrid(cfg.Arena.WidthCM, cfg.Arena.HeightCM, cfg.Arena.ShieldRad*2, cfg.Limits.MaxRobots),
		sap:          spatial.NewSweepAndPrune(cfg.Limits.MaxRobots + cfg.Limits.MaxInFlightWeapon),
		rank:         spatial.NewRankList(seed),
		graphics:     mask.NewGraphicCache(cfg.Limits.MaxRobots),
		rng:          rand.New(rand.NewSource(seed)),
		rngSeed:      seed,
		stopChan:     make(chan struct{}),
		eventLog:     NewEventLog(),
		snapshotPool: NewSnapshotPool(cfg.Limits),
		mailLimiter:  newMailRateLimiter(),
	}
}

// OnFatal installs a callback invoked (instead of log.Fatalf) when the
// tick loop recovers a FatalError. cmd/server installs one that logs and
// exits. A FatalError raised by RegisterRobot is not recovered; it
// reaches the caller as a panic.
func (e *Engine) OnFatal(f func(err *FatalError)) {
	e.onFatal = f
}

func (e *Engine) reportFatal(err *FatalError) {
	if e.onFatal != nil {
		e.onFatal(err)
		return
	}
	log.Fatalf("fatal simulation error: %s", err.Message)
}

// Start begins the tick loop on its own goroutine.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.game.State = StateFighting
	e.game.SoundRequest[config.SoundFightStart] = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.Sim.CalcsPerSec))

	go func() {
		for {
			select {
			case <-e.ticker.C:
				e.safeTick()
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("\U0001F916 simulation kernel started at %d ticks/sec", e.cfg.Sim.CalcsPerSec)
}

// Stop halts the tick loop and drains the match to GS_OVER.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	e.game.State = StateOver
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("\U0001F6D1 simulation kernel stopped")
}

// safeTick recovers a FatalError raised anywhere in tick() so the
// process can report it and exit cleanly instead of dying mid-lock.
func (e *Engine) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(*FatalError); ok {
				e.reportFatal(fe)
				return
			}
			panic(r)
		}
	}()
	e.tick()
}

// tick advances exactly one simulation step, in fixed subsystem order:
// energy -> motion -> (rasterise robot masks) -> robot collisions ->
// weapon flight -> weapon collisions -> damage -> (rasterise sensor
// masks) -> sensors -> (every Nth tick) agent dispatch.
func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tickCount++
	e.rngSeed = e.rng.Int63()
	e.rng.Seed(e.rngSeed)

	e.eventLog.EmitSimple(EventTick, e.tickCount, -1, TickPayload{
		RNGSeed: e.rngSeed, LiveRobots: e.liveCount(),
	})

	e.runEnergy()
	e.runMotion()
	e.rasteriseRobotMasks()
	e.runRobotCollisions()
	e.runWeaponFlight()
	e.runWeaponCollisions()
	e.runDamage()
	e.rasteriseSensorMasks()
	e.runSensors()
	e.updateRanking()

	e.ticksSinceOrders++
	if e.ticksSinceOrders >= e.cfg.Sim.OrderFreq {
		e.ticksSinceOrders = 0
		e.dispatchAgentActions()
	}

	e.snapshotPool.Produce(e)
}

func (e *Engine) liveCount() int {
	n := 0
	for _, r := range e.robots {
		if !r.Destroyed {
			n++
		}
	}
	return n
}

func (e *Engine) liveRobots() []*Robot {
	out := make([]*Robot, 0, len(e.robots))
	for _, r := range e.robots {
		if !r.Destroyed {
			out = append(out, r)
		}
	}
	return out
}

// dispatchAgentActions calls every live robot's action callback with the
// fixed TURN_TIME argument. Exactly one robot is addressable
// (via the Ops passed to it) for the duration of each call.
func (e *Engine) dispatchAgentActions() {
	for _, r := range e.liveRobots() {
		if r.Actions == nil {
			continue
		}
		ops := &Ops{e: e, robotID: r.ID}
		// Called from tick() under e.mu; Ops methods take e.mu themselves,
		// so release it for the callback.
		func() {
			e.mu.Unlock()
			defer e.mu.Lock()
			r.Actions(ops, e.cfg.Sim.TurnTimeMS)
		}()
	}
}

// RegisterRobot places a new robot on the arena during Setup. x, y, heading are ignored (auto-placed) when
// autoPlace is true.
func (e *Engine) RegisterRobot(name string, color Color, actions ActionsFunc, configure ConfigureFunc, customGraphicPath string, x, y, heading float64, autoPlace bool) *Robot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.game.State != StateSetup {
		fatalf("register_robot called outside Setup state")
	}
	if len(name) == 0 || len(name) > e.cfg.Limits.MaxNameLen {
		fatalf("robot name %q exceeds MAX_NAME_LEN", name)
	}
	if len(e.robots) >= e.cfg.Limits.MaxRobots {
		fatalf("robot registration exceeds MAX_ROBOTS (%d)", e.cfg.Limits.MaxRobots)
	}

	id := len(e.robots)
	r := &Robot{
		ID:                 id,
		Name:               name,
		Color:              color,
		Heading:            heading,
		Shield:             e.cfg.Energy.StartShieldEnergy,
		GeneratorStructure: e.cfg.Energy.MaxGeneratorStruct,
		Mailbox:            spatial.NewRingQueue(e.cfg.Limits.MaxMailboxDepth),
		Priorities:         [numSystemKinds]SystemKind{SystemShields, SystemSensors, SystemLasers, SystemMissiles},
		Actions:            actions,
		Configure:          configure,
	}
	r.Weapons[WeaponMissile] = newWeaponSystem(WeaponMissile, e.cfg.Weapons.Missile)
	r.Weapons[WeaponLaser] = newWeaponSystem(WeaponLaser, e.cfg.Weapons.Laser)

	if customGraphicPath != "" {
		g, err := e.graphics.Load(customGraphicPath)
		if err != nil {
			fatalf("failed to load custom graphic for %q: %v", name, err)
		}
		r.CustomGraphic = g
	}

	if autoPlace {
		r.X, r.Y = e.placeRandomly()
		r.Heading = e.rng.Float64() * 360
	} else {
		r.X, r.Y = x, y
	}

	e.robots = append(e.robots, r)

	if configure != nil {
		// Ops methods take e.mu themselves, so release it for the callback.
		func() {
			e.mu.Unlock()
			defer e.mu.Lock()
			configure(&Ops{e: e, robotID: r.ID})
		}()
	}

	e.eventLog.EmitSimple(EventRobotJoin, e.tickCount, id, JoinPayload{Name: name, X: r.X, Y: r.Y})
	log.Printf("\U0001F916 robot registered: %s at (%.1f, %.1f)", name, r.X, r.Y)
	return r
}

func newWeaponSystem(kind WeaponType, stat config.WeaponStatConfig) WeaponSystem {
	bump := BumpLaser
	if kind == WeaponMissile {
		bump = BumpMissile
	}
	return WeaponSystem{
		Kind:         kind,
		MaxAngle:     stat.MaxAngle,
		MinEnergy:    stat.MinEnergy,
		MaxEnergy:    stat.MaxEnergy,
		BonusEnergy:  stat.BonusEnergy,
		SplashRange:  stat.SplashRange,
		SplashDamage: stat.SplashDamage,
		Speed:        stat.Speed,
		BumpValue:    bump,
		FiringSound:  stat.FiringSound,
		ImpactSound:  stat.ImpactSound,
	}
}

// placeRandomly finds a point at least MinRandomDistCM clear of every
// already-placed robot, retrying up to MaxPlacementTries times before a
// fatal placement failure.
func (e *Engine) placeRandomly() (float64, float64) {
	for try := 0; try < e.cfg.Limits.MaxPlacementTries; try++ {
		x := e.cfg.Arena.ShieldRad + e.rng.Float64()*(e.cfg.Arena.WidthCM-2*e.cfg.Arena.ShieldRad)
		y := e.cfg.Arena.ShieldRad + e.rng.Float64()*(e.cfg.Arena.HeightCM-2*e.cfg.Arena.ShieldRad)

		clear := true
		for _, r := range e.robots {
			if math.Hypot(r.X-x, r.Y-y) < e.cfg.Limits.MinRandomDistCM {
				clear = false
				break
			}
		}
		if clear {
			return x, y
		}
	}
	fatalf("could not place robot: no clear random location found after %d tries", e.cfg.Limits.MaxPlacementTries)
	return 0, 0
}

// Rerandomize re-places every live robot at a fresh random legal
// location and heading.
func (e *Engine) Rerandomize() {
	e.mu.Lock()
	defer e.mu.Unlock()

	live := make([]*Robot, 0, len(e.robots))
	for _, r := range e.robots {
		if !r.Destroyed {
			live = append(live, r)
		}
	}

	placed := make([]*Robot, 0, len(live))
	for _, r := range live {
		x, y := e.placeRandomlyAgainst(placed)
		r.X, r.Y = x, y
		r.Heading = e.rng.Float64() * 360
		placed = append(placed, r)
	}
}

func (e *Engine) placeRandomlyAgainst(placed []*Robot) (float64, float64) {
	for try := 0; try < e.cfg.Limits.MaxPlacementTries; try++ {
		x := e.cfg.Arena.ShieldRad + e.rng.Float64()*(e.cfg.Arena.WidthCM-2*e.cfg.Arena.ShieldRad)
		y := e.cfg.Arena.ShieldRad + e.rng.Float64()*(e.cfg.Arena.HeightCM-2*e.cfg.Arena.ShieldRad)
		clear := true
		for _, r := range placed {
			if math.Hypot(r.X-x, r.Y-y) < e.cfg.Limits.MinRandomDistCM {
				clear = false
				break
			}
		}
		if clear {
			return x, y
		}
	}
	fatalf("rerandomize: no clear random location found after %d tries", e.cfg.Limits.MaxPlacementTries)
	return 0, 0
}

func (e *Engine) findRobotByID(id int) *Robot {
	if id < 0 || id >= len(e.robots) {
		return nil
	}
	return e.robots[id]
}

func (e *Engine) findRobotByName(name string) *Robot {
	for _, r := range e.robots {
		if r.Name == name && !r.Destroyed {
			return r
		}
	}
	return nil
}

func (e *Engine) updateRanking() {
	for _, r := range e.robots {
		if r.Destroyed {
			e.rank.Remove(r.Name)
			continue
		}
		e.rank.Upsert(r.Name, r.GeneratorStructure)
	}
}

// MatchStats returns the live robots ranked by remaining generator
// structure, highest first.
func (e *Engine) MatchStats() []spatial.RankedEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rank.Top(len(e.robots))
}

// TickCount returns the number of ticks simulated so far.
func (e *Engine) TickCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickCount
}

// GetSnapshot returns the latest immutable rendering-contract snapshot.
func (e *Engine) GetSnapshot() *Snapshot {
	return e.snapshotPool.AcquireRead()
}

// StartEventLog begins the in-memory audit feed: match state is never
// persisted to disk, but a bounded in-memory event feed for the
// external collaborator is not persistence.
func (e *Engine) StartEventLog() {
	e.eventLog.Start()
}

// StopEventLog stops the audit feed from accepting events; buffered
// events stay readable.
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// EventLogStats exposes the audit feed's drop/backpressure counters.
func (e *Engine) EventLogStats() map[string]uint64 {
	return e.eventLog.GetStats()
}
