// Package stairs retrofits rooms whose exits the player cannot reach:
// it walks chains of small one-way platforms from the reachable
// frontier toward each stranded objective, every step applied through
// the same speculative-commit discipline as regular platforms, then
// finishes with a purely decorative pass.
package stairs

import (
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/game/room"
	"deepfall/pkg/game/traverse"
)

const (
	platformBudget = 40
	minPlatformGap = 3
	maxStairSteps  = 24
	decoChance     = 0.35
	decoAttempts   = 8
)

// Builder applies staircase and decoration passes to one room.
type Builder struct {
	profile traverse.Profile
	rng     *rand.Rand
	budget  int
	placed  []grid.Rect
}

// New creates a staircase builder with its own random stream.
func New(profile traverse.Profile, seed int64) *Builder {
	return &Builder{
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
		budget:  platformBudget,
	}
}

// objective is one from→to path the room must support.
type objective struct {
	from, to grid.Point
}

// Apply ensures the forward path, the return path, and an escape from
// every pocket room, then runs the decorative pass.
func (b *Builder) Apply(r *room.Room) {
	objectives := []objective{
		{from: r.Entrance, to: r.Exit},
		{from: r.Exit, to: r.Entrance},
	}
	for _, a := range r.Areas {
		if pocket, ok := a.(room.PocketRoom); ok {
			objectives = append(objectives, objective{from: pocket.Rect.Center(), to: r.Entrance})
		}
	}

	for _, obj := range objectives {
		b.ensurePath(r, obj, objectives)
	}
	b.decorate(r, objectives)
}

// ensurePath builds a platform chain from the reachable frontier
// toward the objective until it connects or the budget runs out. Each
// step must not strand any objective that was reachable before it.
func (b *Builder) ensurePath(r *room.Room, obj objective, all []objective) {
	g := r.Grid
	target, ok := traverse.GroundLocation(g, obj.to, b.profile)
	if !ok {
		return
	}

	for step := 0; step < maxStairSteps && b.budget > 0; step++ {
		reach := traverse.Reachable(g, obj.from, b.profile)
		if reach.Has(target) {
			return
		}

		frontier, ok := nearestTo(reach, target)
		if !ok {
			return
		}

		rect, ok := b.stepRect(g, frontier, target)
		if !ok {
			continue
		}

		before := reachableObjectives(g, all, b.profile)
		kept := grid.TryCommit(g, func(p *grid.Patch) {
			rect.ForEach(func(x, y int) {
				p.Set(x, y, grid.OneWay)
			})
		}, func() bool {
			return objectivesStillReachable(g, before, b.profile)
		})

		if kept {
			b.budget--
			b.placed = append(b.placed, rect)
			r.Areas = append(r.Areas, room.Platform{Rect: rect})
		}
	}
}

// stepRect proposes the next platform: from the frontier toward the
// target, offset within the jump envelope, 1 to 3 tiles wide.
func (b *Builder) stepRect(g *grid.Grid, from, target grid.Point) (grid.Rect, bool) {
	dx := clamp(target.X-from.X, -(b.profile.JumpDistance-1), b.profile.JumpDistance-1)
	dy := clamp(target.Y-from.Y, -(b.profile.JumpHeight-1), b.profile.JumpHeight-1)
	// A small lateral wobble keeps chains from stacking vertically.
	dx += b.rng.Intn(3) - 1

	w := 1 + b.rng.Intn(3)
	rect := grid.Rect{X: from.X + dx, Y: from.Y + dy + 1, W: w, H: 1}.Clamp(g)
	if rect.W == 0 || rect.H == 0 {
		return grid.Rect{}, false
	}

	clear := true
	rect.ForEach(func(x, y int) {
		if g.At(x, y) != grid.Air {
			clear = false
		}
		for up := 1; up <= b.profile.Height; up++ {
			if g.At(x, y-up).Blocks() {
				clear = false
			}
		}
	})
	if !clear {
		return grid.Rect{}, false
	}

	// The previous step of the chain is exempt from spacing: stair
	// steps have to sit within one jump of each other.
	for i, prev := range b.placed {
		if i == len(b.placed)-1 {
			continue
		}
		if rect.Expand(minPlatformGap).Intersects(prev) {
			return grid.Rect{}, false
		}
	}
	return rect, true
}

// decorate adds cosmetic floating chunks: kept only when they touch
// no reachable tile and leave every previously-reachable objective
// intact.
func (b *Builder) decorate(r *room.Room, all []objective) {
	if b.rng.Float64() >= decoChance {
		return
	}
	g := r.Grid
	reach := traverse.Reachable(g, r.Entrance, b.profile)

	for attempt := 0; attempt < decoAttempts; attempt++ {
		w := 2 + b.rng.Intn(2)
		h := 1 + b.rng.Intn(2)
		rect := grid.Rect{
			X: 2 + b.rng.Intn(maxOf(1, g.Width()-w-4)),
			Y: 2 + b.rng.Intn(maxOf(1, g.Height()-h-4)),
			W: w,
			H: h,
		}

		if !b.chunkIsCosmetic(g, rect, reach) {
			continue
		}

		before := reachableObjectives(g, all, b.profile)
		grid.TryCommit(g, func(p *grid.Patch) {
			rect.ForEach(func(x, y int) {
				p.Set(x, y, grid.Wall)
			})
		}, func() bool {
			return objectivesStillReachable(g, before, b.profile)
		})
	}
}

// chunkIsCosmetic requires open air for the chunk, away from any
// standable tile the player can currently reach or the body space
// above one.
func (b *Builder) chunkIsCosmetic(g *grid.Grid, rect grid.Rect, reach mapset.Set[grid.Point]) bool {
	ok := true
	rect.Expand(1).ForEach(func(x, y int) {
		for dy := 0; dy < b.profile.Height; dy++ {
			if reach.Has(grid.Point{X: x, Y: y + dy}) {
				ok = false
			}
		}
	})
	rect.ForEach(func(x, y int) {
		if g.At(x, y) != grid.Air {
			ok = false
		}
	})
	return ok
}

// reachableObjectives records which objectives currently verify, so
// an edit can be rejected if it regresses any of them.
func reachableObjectives(g *grid.Grid, all []objective, p traverse.Profile) []objective {
	var reachable []objective
	for _, obj := range all {
		if traverse.Verify(g, obj.from, obj.to, p) {
			reachable = append(reachable, obj)
		}
	}
	return reachable
}

func objectivesStillReachable(g *grid.Grid, before []objective, p traverse.Profile) bool {
	for _, obj := range before {
		if !traverse.Verify(g, obj.from, obj.to, p) {
			return false
		}
	}
	return true
}

// nearestTo picks the reachable tile closest to the target, with a
// fixed tie-break so the choice is deterministic.
func nearestTo(reach mapset.Set[grid.Point], target grid.Point) (grid.Point, bool) {
	var tiles []grid.Point
	reach.Each(func(p grid.Point) {
		tiles = append(tiles, p)
	})
	if len(tiles) == 0 {
		return grid.Point{}, false
	}
	sort.Slice(tiles, func(a, b int) bool {
		da := sqDist(tiles[a], target)
		db := sqDist(tiles[b], target)
		if da != db {
			return da < db
		}
		if tiles[a].Y != tiles[b].Y {
			return tiles[a].Y < tiles[b].Y
		}
		return tiles[a].X < tiles[b].X
	})
	return tiles[0], true
}

func sqDist(a, b grid.Point) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
