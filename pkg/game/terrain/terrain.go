// Package terrain holds the macro level generators: BSP dungeons,
// cellular-automata caves, noise-based outdoor terrain, and the
// hybrid combinator, plus the layout passes that assign special rooms
// and carve their features. Grids here use only Floor and Wall.
package terrain

import (
	"sort"

	"deepfall/pkg/engine/grid"
)

// LevelType selects which generator builds a level.
type LevelType string

const (
	Dungeon LevelType = "dungeon"
	Cave    LevelType = "cave"
	Outdoor LevelType = "outdoor"
	Hybrid  LevelType = "hybrid"
)

// RoomRole tags rooms that receive special treatment.
type RoomRole string

const (
	SpawnRoom    RoomRole = "spawn"
	PortalRoom   RoomRole = "portal"
	MerchantRoom RoomRole = "merchant"
)

// Layout is a generated macro level: the grid, its rooms (including
// corridor and chamber pseudo-rooms), role assignments, and the
// computed spawn and portal tiles.
type Layout struct {
	Grid        *grid.Grid
	Rooms       []grid.Rect
	Roles       map[RoomRole]int
	SpawnPoint  grid.Point
	PortalPoint grid.Point
}

// Generator produces a complete layout for given dimensions and seed.
// Implementations must be deterministic in the seed.
type Generator interface {
	Name() string
	Generate(width, height int, seed int64) *Layout
}

// Generators maps each level type to its generator.
var Generators = map[LevelType]Generator{
	Dungeon: &BSPGenerator{},
	Cave:    &CellularGenerator{},
	Outdoor: &NoiseGenerator{},
	Hybrid:  &HybridGenerator{},
}

// ForType returns the generator for a level type, defaulting to the
// dungeon generator for unknown types.
func ForType(t LevelType) Generator {
	if g, ok := Generators[t]; ok {
		return g
	}
	return Generators[Dungeon]
}

// assignRoles picks the special rooms: spawn near the grid center
// among the larger rooms, portal as far from spawn as possible, and
// merchant at a middling distance. Needs at least one room.
func assignRoles(l *Layout) {
	l.Roles = make(map[RoomRole]int)
	if len(l.Rooms) == 0 {
		return
	}

	// Spawn: among the larger half of rooms, the one closest to the
	// grid center.
	ordered := make([]int, len(l.Rooms))
	for i := range ordered {
		ordered[i] = i
	}
	sort.Slice(ordered, func(a, b int) bool {
		return l.Rooms[ordered[a]].Area() > l.Rooms[ordered[b]].Area()
	})
	larger := ordered[:(len(ordered)+1)/2]

	center := grid.Point{X: l.Grid.Width() / 2, Y: l.Grid.Height() / 2}
	spawn := larger[0]
	for _, i := range larger {
		if sqDist(l.Rooms[i].Center(), center) < sqDist(l.Rooms[spawn].Center(), center) {
			spawn = i
		}
	}
	l.Roles[SpawnRoom] = spawn

	// Portal: the room farthest from spawn.
	portal := -1
	for i := range l.Rooms {
		if i == spawn {
			continue
		}
		if portal < 0 || sqDist(l.Rooms[i].Center(), l.Rooms[spawn].Center()) >
			sqDist(l.Rooms[portal].Center(), l.Rooms[spawn].Center()) {
			portal = i
		}
	}
	if portal < 0 {
		portal = spawn
	}
	l.Roles[PortalRoom] = portal

	// Merchant: closest to half the spawn-portal distance.
	maxD := sqDist(l.Rooms[portal].Center(), l.Rooms[spawn].Center())
	merchant := -1
	bestGap := 0
	for i := range l.Rooms {
		if i == spawn || i == portal {
			continue
		}
		gap := sqDist(l.Rooms[i].Center(), l.Rooms[spawn].Center()) - maxD/4
		if gap < 0 {
			gap = -gap
		}
		if merchant < 0 || gap < bestGap {
			merchant = i
			bestGap = gap
		}
	}
	if merchant >= 0 {
		l.Roles[MerchantRoom] = merchant
	}

	l.SpawnPoint = roomFloorPoint(l.Grid, l.Rooms[spawn])
	l.PortalPoint = roomFloorPoint(l.Grid, l.Rooms[portal])
}

// carveFeatures adds the role-specific furniture: a pillar cross in a
// large portal room and a counter in the merchant room.
func carveFeatures(l *Layout) {
	if i, ok := l.Roles[PortalRoom]; ok {
		r := l.Rooms[i]
		if r.W >= 7 && r.H >= 7 {
			c := r.Center()
			for d := -1; d <= 1; d++ {
				l.Grid.Set(c.X+d, c.Y, grid.Wall)
				l.Grid.Set(c.X, c.Y+d, grid.Wall)
			}
			// Keep the portal tile itself open beside the pillar.
			l.Grid.Set(c.X+2, c.Y, grid.Floor)
			l.PortalPoint = grid.Point{X: c.X + 2, Y: c.Y}
		}
	}
	if i, ok := l.Roles[MerchantRoom]; ok {
		r := l.Rooms[i]
		if r.W >= 5 && r.H >= 4 {
			c := r.Center()
			for d := -1; d <= 1; d++ {
				l.Grid.Set(c.X+d, c.Y-1, grid.Wall)
			}
		}
	}
}

// roomFloorPoint returns the room center, nudged to the nearest floor
// tile inside the room if the center itself is blocked.
func roomFloorPoint(g *grid.Grid, r grid.Rect) grid.Point {
	c := r.Center()
	if g.At(c.X, c.Y) == grid.Floor {
		return c
	}
	best := c
	bestD := -1
	r.ForEach(func(x, y int) {
		if g.At(x, y) != grid.Floor {
			return
		}
		d := sqDist(grid.Point{X: x, Y: y}, c)
		if bestD < 0 || d < bestD {
			best = grid.Point{X: x, Y: y}
			bestD = d
		}
	})
	return best
}

func sqDist(a, b grid.Point) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
