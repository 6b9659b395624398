// Package traverse answers "can the player get from here to there"
// under a simplified movement model: walking, falling, and sampled
// jump arcs constrained by a jump envelope. Every speculative edit in
// the generation pipeline re-runs this check before it is kept.
package traverse

import (
	"math"

	"github.com/zyedidia/generic/mapset"

	"deepfall/pkg/engine/grid"
)

// Profile describes the player's footprint and jump envelope, all in
// tiles. The zero value is useless; use DefaultProfile or FromPhysics.
type Profile struct {
	Width        int
	Height       int
	JumpHeight   int
	JumpDistance int
}

// DefaultProfile matches the standard player body: one tile wide, two
// tall, with a 4-tile rise and 6-tile horizontal jump.
func DefaultProfile() Profile {
	return Profile{Width: 1, Height: 2, JumpHeight: 4, JumpDistance: 6}
}

// FromPhysics computes the jump envelope from movement constants:
// peak height v²/2g and horizontal range airSpeed · 2v/g, converted
// to whole tiles. The footprint stays the standard 1×2 body.
func FromPhysics(gravity, jumpImpulse, airSpeed, tileSize float64) Profile {
	p := DefaultProfile()
	if gravity <= 0 || jumpImpulse <= 0 || tileSize <= 0 {
		return p
	}
	peak := jumpImpulse * jumpImpulse / (2 * gravity)
	airtime := 2 * jumpImpulse / gravity
	p.JumpHeight = int(peak / tileSize)
	p.JumpDistance = int(airSpeed * airtime / tileSize)
	if p.JumpHeight < 1 {
		p.JumpHeight = 1
	}
	if p.JumpDistance < 1 {
		p.JumpDistance = 1
	}
	return p
}

// Standable checks if the player can stand at (x, y): the tile below
// supports weight and the full footprint starting at (x, y) is clear.
func Standable(g *grid.Grid, x, y int, p Profile) bool {
	if !g.At(x, y+1).Solid() {
		return false
	}
	return bodyFits(g, x, y, p)
}

// bodyFits checks the footprint columns and the clearance above them.
// (x, y) is the tile the player's feet occupy.
func bodyFits(g *grid.Grid, x, y int, p Profile) bool {
	for dx := 0; dx < p.Width; dx++ {
		for dy := 0; dy < p.Height; dy++ {
			if g.At(x+dx, y-dy).Blocks() {
				return false
			}
		}
	}
	return true
}

// GroundLocation resolves a coordinate (typically a door cell, which
// is the air above its shelf) to the standable tile at or below it.
// Returns false if the column holds no standable tile.
func GroundLocation(g *grid.Grid, at grid.Point, p Profile) (grid.Point, bool) {
	for y := at.Y; y < g.Height()-1; y++ {
		if g.At(at.X, y).Blocks() {
			break
		}
		if Standable(g, at.X, y, p) {
			return grid.Point{X: at.X, Y: y}, true
		}
	}
	return grid.Point{}, false
}

// Reachable returns every standable tile reachable from start via
// walk, fall, and jump edges. Start is resolved to ground first; an
// unresolvable start yields the empty set.
func Reachable(g *grid.Grid, start grid.Point, p Profile) mapset.Set[grid.Point] {
	visited := mapset.New[grid.Point]()
	ground, ok := GroundLocation(g, start, p)
	if !ok {
		return visited
	}

	queue := []grid.Point{ground}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited.Has(current) {
			continue
		}
		visited.Put(current)

		for _, next := range edgesFrom(g, current, p) {
			if !visited.Has(next) {
				queue = append(queue, next)
			}
		}
	}

	return visited
}

// Verify reports whether the exit's ground tile is reachable from the
// entrance's ground tile under the profile.
func Verify(g *grid.Grid, entrance, exit grid.Point, p Profile) bool {
	target, ok := GroundLocation(g, exit, p)
	if !ok {
		return false
	}
	return Reachable(g, entrance, p).Has(target)
}

// edgesFrom enumerates movement edges out of a standable tile.
func edgesFrom(g *grid.Grid, from grid.Point, p Profile) []grid.Point {
	var edges []grid.Point

	// Walk to an adjacent standable tile at the same height.
	for _, dx := range []int{-1, 1} {
		if Standable(g, from.X+dx, from.Y, p) {
			edges = append(edges, grid.Point{X: from.X + dx, Y: from.Y})
		}
	}

	// Step off a ledge and fall through clear air to the next
	// standable tile below.
	for _, dx := range []int{-1, 1} {
		nx := from.X + dx
		if !bodyFits(g, nx, from.Y, p) || Standable(g, nx, from.Y, p) {
			continue
		}
		for y := from.Y + 1; y < g.Height()-1; y++ {
			if g.At(nx, y).Blocks() {
				break
			}
			if Standable(g, nx, y, p) {
				edges = append(edges, grid.Point{X: nx, Y: y})
				break
			}
		}
	}

	// Jump to any standable tile inside the envelope whose sampled
	// arc is clear.
	for dx := -p.JumpDistance; dx <= p.JumpDistance; dx++ {
		for dy := -p.JumpHeight; dy <= p.JumpHeight; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			to := grid.Point{X: from.X + dx, Y: from.Y + dy}
			if !Standable(g, to.X, to.Y, p) {
				continue
			}
			if arcClear(g, from, to, p) {
				edges = append(edges, to)
			}
		}
	}

	return edges
}

// arcClear approximates the jump arc as a vertical rise to the apex
// followed by a straight descent to the target, and rejects the edge
// if any sampled body position along it is obstructed. This is the
// head-bonk check: a ceiling over the launch or the gap kills the jump.
func arcClear(g *grid.Grid, from, to grid.Point, p Profile) bool {
	rise := from.Y - to.Y
	if rise < 0 {
		rise = 0
	}
	lift := rise + 1
	if lift > p.JumpHeight {
		lift = p.JumpHeight
	}
	apexY := from.Y - lift

	// Rise phase: straight up from the launch tile to the apex.
	for y := from.Y - 1; y >= apexY; y-- {
		if !bodyFits(g, from.X, y, p) {
			return false
		}
	}

	// Travel phase: sampled line from the apex to the target.
	dx := to.X - from.X
	dy := to.Y - apexY
	steps := 2 * maxInt(absInt(dx), absInt(dy))
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		cx := int(math.Round(float64(from.X) + t*float64(dx)))
		cy := int(math.Round(float64(apexY) + t*float64(dy)))
		if !bodyFits(g, cx, cy, p) {
			return false
		}
	}
	return true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
