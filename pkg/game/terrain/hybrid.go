package terrain

import (
	"fmt"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/engine/seed"
)

// wallSprinkleChance is the fraction of open dungeon floor the hybrid
// generator roughens with extra wall tiles.
const wallSprinkleChance = 10 // percent

// HybridGenerator layers sparse noise walls over a BSP dungeon. Each
// candidate cell rolls against a seed derived from its own position,
// so regenerating the level reproduces the exact same roughening.
type HybridGenerator struct{}

func (gen *HybridGenerator) Name() string {
	return "hybrid"
}

func (gen *HybridGenerator) Generate(width, height int, seed64 int64) *Layout {
	l := (&BSPGenerator{}).Generate(width, height, seed64)
	g := l.Grid

	g.ForEach(func(x, y int, k grid.Kind) {
		if k != grid.Floor || !g.Interior(x, y) {
			return
		}
		p := grid.Point{X: x, Y: y}
		if p == l.SpawnPoint || p == l.PortalPoint {
			return
		}
		micro := seed.Derive(seed64, fmt.Sprintf("cell_%d_%d", x, y))
		if micro%100 < wallSprinkleChance {
			g.Set(x, y, grid.Wall)
		}
	})

	// Sprinkling can sever corridors; stitch the floor back together.
	reconnectFloor(g)
	g.SealBoundary()

	// Recompute anchors in case the sprinkle buried one.
	if i, ok := l.Roles[SpawnRoom]; ok {
		l.SpawnPoint = roomFloorPoint(g, l.Rooms[i])
	}
	if i, ok := l.Roles[PortalRoom]; ok {
		l.PortalPoint = roomFloorPoint(g, l.Rooms[i])
	}
	return l
}
