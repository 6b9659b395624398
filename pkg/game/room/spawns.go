package room

import (
	"deepfall/pkg/engine/grid"
)

// placeSpawnAreas lays out enemy spawn rectangles: count scales with
// room area and difficulty, placement rejects door zones and keeps a
// minimum spacing between areas. The room's enemy budget is split
// evenly across the accepted areas.
func (b *Builder) placeSpawnAreas(r *Room) {
	g := r.Grid
	target := b.spawnAreaTarget(r)

	var placed []grid.Rect
	for attempt := 0; attempt < target*3 && len(placed) < target; attempt++ {
		w := 4 + b.rng.Intn(4)
		h := 3 + b.rng.Intn(2)
		rect := grid.Rect{
			X: 2 + b.rng.Intn(maxInt(1, g.Width()-w-4)),
			Y: 2 + b.rng.Intn(maxInt(1, g.Height()-h-4)),
			W: w,
			H: h,
		}

		if !b.spawnAreaFits(r, rect, placed) {
			continue
		}
		placed = append(placed, rect)
	}

	budget := EnemyBudget(r.Bounds.Area(), r.Difficulty, b.cfg)
	for _, rect := range placed {
		share := budget / maxInt(1, len(placed))
		if share < 1 {
			share = 1
		}
		r.SpawnAreas = append(r.SpawnAreas, SpawnArea{
			Rect:            rect,
			MaxEnemies:      share,
			DifficultyLevel: r.Difficulty,
		})
	}
}

// spawnAreaTarget computes the area count: one per 100 tiles, scaled
// up 10% per difficulty step, clamped to the configured bounds.
func (b *Builder) spawnAreaTarget(r *Room) int {
	base := r.Bounds.Area() / 100
	target := int(float64(base) * (1 + float64(r.Difficulty)/10))
	if target < b.cfg.SpawnAreaMin {
		target = b.cfg.SpawnAreaMin
	}
	if target > b.cfg.SpawnAreaMax {
		target = b.cfg.SpawnAreaMax
	}
	return target
}

// spawnAreaFits rejects rectangles that overlap a door exclusion
// zone, crowd a previous area, or cover mostly solid rock.
func (b *Builder) spawnAreaFits(r *Room, rect grid.Rect, placed []grid.Rect) bool {
	for _, a := range r.Areas {
		if _, ok := a.(ExclusionZone); ok && rect.Intersects(a.Bounds()) {
			return false
		}
	}
	for _, other := range placed {
		if rect.Expand(b.cfg.SpawnSpacing).Intersects(other) {
			return false
		}
	}

	open := 0
	rect.ForEach(func(x, y int) {
		if !r.Grid.At(x, y).Blocks() {
			open++
		}
	})
	return open*2 >= rect.Area()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
