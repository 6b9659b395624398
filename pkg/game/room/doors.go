package room

import (
	"fmt"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/game/traverse"
)

// runLength is the flat ground run a door needs: room to stand and
// walk through without an immediate drop.
const runLength = 3

// placeDoors scans both vertical edges for flat ground runs with body
// clearance and picks one candidate per side at random. The door cell
// is the clear cell directly above the chosen ground.
func (b *Builder) placeDoors(r *Room) error {
	left, err := b.pickDoor(r.Grid, 1, 1)
	if err != nil {
		return fmt.Errorf("left edge: %w", err)
	}
	right, err := b.pickDoor(r.Grid, r.Grid.Width()-2, -1)
	if err != nil {
		return fmt.Errorf("right edge: %w", err)
	}

	r.Entrance = left
	r.Exit = right
	r.Doors = []PlacedDoor{
		{Key: DoorLeft, Pos: left, Ground: grid.Point{X: left.X, Y: left.Y + 1}},
		{Key: DoorRight, Pos: right, Ground: grid.Point{X: right.X, Y: right.Y + 1}},
	}

	for _, d := range r.Doors {
		carve := grid.Rect{X: d.Pos.X - 1, Y: d.Pos.Y - 1, W: 3, H: 3}
		r.Areas = append(r.Areas,
			DoorCarve{Rect: carve, DoorKey: d.Key},
			ExclusionZone{Rect: carve.Expand(1)},
		)
	}
	return nil
}

// pickDoor collects every edge position with a flat standable run
// extending inward (dir +1 from the left edge, -1 from the right) and
// returns a random one.
func (b *Builder) pickDoor(g *grid.Grid, edgeX, dir int) (grid.Point, error) {
	var candidates []grid.Point
	for y := 1; y < g.Height()-1; y++ {
		ok := true
		for i := 0; i < runLength; i++ {
			if !traverse.Standable(g, edgeX+i*dir, y, b.profile) {
				ok = false
				break
			}
		}
		if ok {
			candidates = append(candidates, grid.Point{X: edgeX, Y: y})
		}
	}
	if len(candidates) == 0 {
		return grid.Point{}, fmt.Errorf("no flat ground run for a door")
	}
	return candidates[b.rng.Intn(len(candidates))], nil
}
