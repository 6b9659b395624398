// Package validate enforces the macro playability invariants on
// generated levels and repairs what it can: sealed boundary, connected
// floor, a reachable portal, and reachable enemy spawns. The pipeline
// here always hands the caller a loadable level, valid or best-effort.
package validate

import (
	"fmt"
	"math/rand"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/game/terrain"
)

// Result reports a validation pass. Issues are ordered and
// human-readable; only the repair loop and tests consume them.
type Result struct {
	IsValid bool
	Issues  []string
}

// Config tunes the validator thresholds and the repair budget.
type Config struct {
	ConnectivityThreshold float64
	MaxAttempts           int
	MinSpawnDistance      int
}

// DefaultConfig returns the standard validation tuning.
func DefaultConfig() Config {
	return Config{
		ConnectivityThreshold: 0.95,
		MaxAttempts:           3,
		MinSpawnDistance:      5,
	}
}

// Validator checks macro structural properties of a layout,
// independent of any single room's internal platforms.
type Validator struct {
	cfg Config
}

// NewValidator creates a validator with the given tuning.
func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

func floorPassable(k grid.Kind) bool {
	return k == grid.Floor
}

// Validate runs every check and collects all failures rather than
// stopping at the first, so repair can target each issue.
func (v *Validator) Validate(l *terrain.Layout, enemySpawns []grid.Point) Result {
	var issues []string

	if !l.Grid.BoundarySealed() {
		issues = append(issues, "boundary not fully sealed")
	}

	floorCount := l.Grid.Count(grid.Floor)
	if floorCount == 0 {
		issues = append(issues, "level has no floor tiles")
		return Result{IsValid: false, Issues: issues}
	}

	ratio := grid.ConnectivityRatio(l.Grid, floorPassable)
	if ratio < v.cfg.ConnectivityThreshold {
		issues = append(issues, fmt.Sprintf("floor connectivity %.2f below threshold %.2f", ratio, v.cfg.ConnectivityThreshold))
	}

	reachable := grid.FloodFill(l.Grid, l.SpawnPoint, floorPassable)
	if reachable.Size() == 0 {
		issues = append(issues, "spawn point is not on floor")
	}

	if l.Grid.At(l.PortalPoint.X, l.PortalPoint.Y) != grid.Floor {
		issues = append(issues, "portal tile is not floor")
	} else if !reachable.Has(l.PortalPoint) {
		issues = append(issues, "portal not reachable from spawn")
	}

	if len(enemySpawns) == 0 {
		issues = append(issues, "no enemy spawn positions")
	} else {
		anyReachable := false
		for _, p := range enemySpawns {
			if reachable.Has(p) {
				anyReachable = true
				break
			}
		}
		if !anyReachable {
			issues = append(issues, "no enemy spawn reachable from player spawn")
		}
	}

	return Result{IsValid: len(issues) == 0, Issues: issues}
}

// Repair applies targeted patches for the failures Validate reports:
// re-seal the boundary, move the portal to the nearest reachable
// floor tile, and regenerate the enemy spawn set from the reachable
// region. Returns the repairs applied, for logging.
func (v *Validator) Repair(l *terrain.Layout, enemySpawns []grid.Point, rng *rand.Rand) ([]grid.Point, []string) {
	var applied []string

	if !l.Grid.BoundarySealed() {
		l.Grid.SealBoundary()
		applied = append(applied, "resealed boundary")
	}

	reachable := reachableInOrder(l.Grid, l.SpawnPoint)
	if len(reachable) == 0 {
		// Spawn itself is off the floor; move it to the first floor
		// tile so the rest of the repairs have an anchor.
		if p, ok := firstFloor(l.Grid); ok {
			l.SpawnPoint = p
			reachable = reachableInOrder(l.Grid, p)
			applied = append(applied, "relocated spawn to floor")
		}
	}

	if len(reachable) > 0 {
		if l.Grid.At(l.PortalPoint.X, l.PortalPoint.Y) != grid.Floor || !contains(reachable, l.PortalPoint) {
			l.PortalPoint = reachable[len(reachable)-1]
			applied = append(applied, "relocated portal to reachable floor")
		}

		anyReachable := false
		for _, p := range enemySpawns {
			if contains(reachable, p) {
				anyReachable = true
				break
			}
		}
		if !anyReachable || len(enemySpawns) == 0 {
			enemySpawns = PickSpawns(l, rng, len(enemySpawns), v.cfg.MinSpawnDistance)
			applied = append(applied, "regenerated enemy spawns")
		}
	}

	return enemySpawns, applied
}

// PickSpawns selects enemy spawn positions on floor reachable from
// the player spawn, at least minDistance away from it.
func PickSpawns(l *terrain.Layout, rng *rand.Rand, count, minDistance int) []grid.Point {
	if count < 1 {
		count = 3
	}
	reachable := reachableInOrder(l.Grid, l.SpawnPoint)
	var candidates []grid.Point
	for _, p := range reachable {
		dx := p.X - l.SpawnPoint.X
		dy := p.Y - l.SpawnPoint.Y
		if dx*dx+dy*dy >= minDistance*minDistance {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		candidates = reachable
	}
	if len(candidates) == 0 {
		return nil
	}

	// Sample without replacement so the set holds distinct positions;
	// fewer than count come back when candidates run out.
	spawns := make([]grid.Point, 0, count)
	for i := 0; i < count && len(candidates) > 0; i++ {
		j := rng.Intn(len(candidates))
		spawns = append(spawns, candidates[j])
		candidates = append(candidates[:j], candidates[j+1:]...)
	}
	return spawns
}

// reachableInOrder returns the floor tiles reachable from start in
// BFS visit order, nearest first. Empty if start is not on floor.
func reachableInOrder(g *grid.Grid, start grid.Point) []grid.Point {
	if !g.InBounds(start.X, start.Y) || !floorPassable(g.At(start.X, start.Y)) {
		return nil
	}
	var order []grid.Point
	seen := map[grid.Point]bool{start: true}
	queue := []grid.Point{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		neighbors := []grid.Point{
			{X: current.X, Y: current.Y - 1},
			{X: current.X + 1, Y: current.Y},
			{X: current.X, Y: current.Y + 1},
			{X: current.X - 1, Y: current.Y},
		}
		for _, n := range neighbors {
			if !seen[n] && g.InBounds(n.X, n.Y) && floorPassable(g.At(n.X, n.Y)) {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return order
}

func firstFloor(g *grid.Grid) (grid.Point, bool) {
	for y := 1; y < g.Height()-1; y++ {
		for x := 1; x < g.Width()-1; x++ {
			if g.At(x, y) == grid.Floor {
				return grid.Point{X: x, Y: y}, true
			}
		}
	}
	return grid.Point{}, false
}

func contains(points []grid.Point, p grid.Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}
