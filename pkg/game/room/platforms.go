package room

import (
	"github.com/zyedidia/generic/mapset"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/game/traverse"
)

// exclusionTiles collects every tile platforms must avoid: the zones
// recorded on the room plus a padded straight line between entrance
// and exit, so platforms never wall off the direct route.
func (b *Builder) exclusionTiles(r *Room) mapset.Set[grid.Point] {
	excluded := mapset.New[grid.Point]()

	for _, a := range r.Areas {
		if _, ok := a.(ExclusionZone); !ok {
			continue
		}
		a.Bounds().ForEach(func(x, y int) {
			excluded.Put(grid.Point{X: x, Y: y})
		})
	}

	for _, p := range linePoints(r.Entrance, r.Exit) {
		grid.Rect{X: p.X - 1, Y: p.Y - 1, W: 3, H: 3}.ForEach(func(x, y int) {
			excluded.Put(grid.Point{X: x, Y: y})
		})
	}

	return excluded
}

// placePlatforms proposes random platforms and keeps each one only if
// the room stays traversable with it in place. Accepted platforms are
// folded into the exclusion set to space out later proposals.
func (b *Builder) placePlatforms(r *Room) {
	g := r.Grid
	excluded := b.exclusionTiles(r)

	for attempt := 0; attempt < b.cfg.PlatformAttempts; attempt++ {
		w := 2 + b.rng.Intn(3)
		rect := grid.Rect{
			X: 2 + b.rng.Intn(maxInt(1, g.Width()-w-4)),
			Y: 2 + b.rng.Intn(maxInt(1, g.Height()-6)),
			W: w,
			H: 1,
		}

		if !b.platformFits(g, rect, excluded) {
			continue
		}

		kept := grid.TryCommit(g, func(p *grid.Patch) {
			rect.ForEach(func(x, y int) {
				p.Set(x, y, grid.OneWay)
			})
		}, func() bool {
			return traverse.Verify(g, r.Entrance, r.Exit, b.profile)
		})

		if kept {
			r.Areas = append(r.Areas, Platform{Rect: rect})
			rect.Expand(2).ForEach(func(x, y int) {
				excluded.Put(grid.Point{X: x, Y: y})
			})
		}
	}
}

// platformFits requires open air for the platform itself, standing
// clearance above it, and no overlap with excluded tiles.
func (b *Builder) platformFits(g *grid.Grid, rect grid.Rect, excluded mapset.Set[grid.Point]) bool {
	fits := true
	rect.ForEach(func(x, y int) {
		if g.At(x, y) != grid.Air || excluded.Has(grid.Point{X: x, Y: y}) {
			fits = false
		}
		for dy := 1; dy <= b.profile.Height; dy++ {
			if g.At(x, y-dy) != grid.Air {
				fits = false
			}
		}
	})
	return fits
}
