package validate

import (
	"fmt"
	"log"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/engine/seed"
	"deepfall/pkg/game/terrain"
)

// State is the pipeline's position in the generate/validate/repair
// ladder. Modeled explicitly so termination and fallback behavior are
// testable on their own.
type State int

const (
	Generating State = iota
	Validating
	Repairing
	Fallback
	Accepted
)

func (s State) String() string {
	switch s {
	case Generating:
		return "generating"
	case Validating:
		return "validating"
	case Repairing:
		return "repairing"
	case Fallback:
		return "fallback"
	case Accepted:
		return "accepted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// extraWallChance is the fraction of open floor the hardest
// difficulty converts back to wall.
const extraWallChance = 0.05

// GeneratedLevel is the pipeline's output: the layout plus the
// metadata the surrounding game needs to instantiate it.
type GeneratedLevel struct {
	Layout      *terrain.Layout
	Type        terrain.LevelType
	LevelSeed   int64
	Difficulty  int
	EnemySpawns []grid.Point
	Result      Result
	State       State
}

// Pipeline runs seed derivation, terrain generation, the difficulty
// modifier, and the bounded validate/repair cycle. It never fails:
// after the repair budget is spent, the best available level is
// returned with its remaining issues attached.
type Pipeline struct {
	cfg       Config
	validator *Validator
}

// NewPipeline creates a pipeline with the given validation tuning.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg, validator: NewValidator(cfg)}
}

// Generate builds the level at (worldSeed, index) of the given type
// and difficulty.
func (p *Pipeline) Generate(worldSeed int64, index int, levelType terrain.LevelType, difficulty, width, height int) *GeneratedLevel {
	levelSeed := seed.NewDeriver(worldSeed).LevelSeed(index)

	lvl := &GeneratedLevel{
		Type:       levelType,
		LevelSeed:  levelSeed,
		Difficulty: difficulty,
		State:      Generating,
	}

	attempts := 0
	for {
		switch lvl.State {
		case Generating:
			lvl.Layout = terrain.ForType(levelType).Generate(width, height, seed.ComponentSeed(levelSeed, seed.Terrain))
			p.applyDifficulty(lvl)
			lvl.EnemySpawns = PickSpawns(lvl.Layout, seed.Rand(levelSeed, seed.Enemies), spawnCount(difficulty), p.cfg.MinSpawnDistance)
			lvl.State = Validating

		case Validating:
			lvl.Result = p.validator.Validate(lvl.Layout, lvl.EnemySpawns)
			if lvl.Result.IsValid {
				lvl.State = Accepted
			} else if attempts < p.cfg.MaxAttempts {
				lvl.State = Repairing
			} else {
				lvl.State = Fallback
			}

		case Repairing:
			attempts++
			spawns, applied := p.validator.Repair(lvl.Layout, lvl.EnemySpawns, seed.Rand(levelSeed, seed.Enemies))
			lvl.EnemySpawns = spawns
			if len(applied) > 0 {
				log.Printf("level %d repair attempt %d: %v", index, attempts, applied)
			}
			lvl.State = Validating

		case Fallback:
			// Best effort: surface the issues and hand the level over
			// anyway. The game must always receive something loadable.
			log.Printf("level %d accepted with issues: %v", index, lvl.Result.Issues)
			return lvl

		case Accepted:
			return lvl
		}
	}
}

// applyDifficulty roughens the hardest levels with ~5% extra interior
// walls, then stitches the floor back together so the validator does
// not immediately have to repair the damage.
func (p *Pipeline) applyDifficulty(lvl *GeneratedLevel) {
	if lvl.Difficulty < 3 {
		return
	}
	rng := seed.Rand(lvl.LevelSeed, seed.Details)
	g := lvl.Layout.Grid

	g.ForEach(func(x, y int, k grid.Kind) {
		if k != grid.Floor || !g.Interior(x, y) {
			return
		}
		pt := grid.Point{X: x, Y: y}
		if pt == lvl.Layout.SpawnPoint || pt == lvl.Layout.PortalPoint {
			return
		}
		if rng.Float64() < extraWallChance {
			g.Set(x, y, grid.Wall)
		}
	})
	terrain.Reconnect(g)
	g.SealBoundary()
}

// spawnCount scales the enemy spawn set with difficulty.
func spawnCount(difficulty int) int {
	return 3 + 2*difficulty
}
