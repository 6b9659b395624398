package room

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/game/traverse"
)

// Builder generates rooms from one seeded RNG. Not safe for
// concurrent use; create one per generation call.
type Builder struct {
	cfg       Config
	profile   traverse.Profile
	rng       *rand.Rand
	protected mapset.Set[grid.Point]
}

// NewBuilder creates a room builder with its own random stream.
func NewBuilder(cfg Config, profile traverse.Profile, seed int64) *Builder {
	return &Builder{
		cfg:     cfg,
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Generate runs the full attempt ladder: up to RegenAttempts fresh
// layouts, then the guaranteed fallback room. It never fails.
func (b *Builder) Generate(depth int) *Room {
	for attempt := 0; attempt < b.cfg.RegenAttempts; attempt++ {
		r, err := b.generateOnce(depth)
		if err == nil {
			return r
		}
	}
	return b.FallbackRoom(depth)
}

// generateOnce runs a single full layout attempt. Any unmet
// requirement discards the whole attempt; rooms are never partially
// repaired across attempts.
func (b *Builder) generateOnce(depth int) (*Room, error) {
	g := grid.NewGrid(b.cfg.Width, b.cfg.Height, grid.Wall)
	b.protected = mapset.New[grid.Point]()

	r := &Room{
		Grid:       g,
		Bounds:     grid.Rect{X: 0, Y: 0, W: b.cfg.Width, H: b.cfg.Height},
		DoorExits:  make(map[string]DoorTarget),
		Depth:      depth,
		Difficulty: DifficultyForDepth(depth, b.cfg),
	}

	b.carveSpawnCorner(g)
	b.carveDoorShelves(g)
	b.drunkardsWalk(g)

	if err := b.reconnect(g); err != nil {
		return nil, err
	}
	if err := b.placeDoors(r); err != nil {
		return nil, err
	}
	if !traverse.Verify(g, r.Entrance, r.Exit, b.profile) {
		return nil, fmt.Errorf("room not traversable between doors")
	}

	b.placePlatforms(r)
	b.placeSpawnAreas(r)
	g.SealBoundary()
	return r, nil
}

// carveBlockSize is the footprint opened at each walker position:
// wide enough for the corridor minimum and tall enough for the player.
func (b *Builder) carveBlockSize() (int, int) {
	w := b.cfg.MinCorridorWidth
	if b.profile.Width > w {
		w = b.profile.Width
	}
	h := b.cfg.MinCorridorHeight
	if b.profile.Height > h {
		h = b.profile.Height
	}
	return w, h
}

// carveBlock opens a cw×ch block centered on (x, y), clipped to the
// interior and around protected tiles.
func (b *Builder) carveBlock(g *grid.Grid, x, y int) {
	cw, ch := b.carveBlockSize()
	block := grid.Rect{X: x - cw/2, Y: y - ch/2, W: cw, H: ch}.Clamp(g)
	block.ForEach(func(cx, cy int) {
		if b.protected.Has(grid.Point{X: cx, Y: cy}) {
			return
		}
		g.Set(cx, cy, grid.Air)
	})
}

// drunkardsWalk carves from the room center with a horizontal bias
// until the target open fraction or the step budget is reached.
func (b *Builder) drunkardsWalk(g *grid.Grid) {
	x, y := g.Width()/2, g.Height()/2
	interior := (g.Width() - 2) * (g.Height() - 2)
	target := int(float64(interior) * b.cfg.CarveTarget)

	// Left and right are double-weighted: platformer rooms should
	// sprawl sideways, not drill straight down.
	dirs := []grid.Point{
		{X: 1, Y: 0}, {X: 1, Y: 0},
		{X: -1, Y: 0}, {X: -1, Y: 0},
		{X: 0, Y: -1}, {X: 0, Y: 1},
	}

	for step := 0; step < b.cfg.StepBudget; step++ {
		if g.Count(grid.Air) >= target {
			break
		}
		b.carveBlock(g, x, y)
		d := dirs[b.rng.Intn(len(dirs))]
		x += d.X
		y += d.Y
		if x < 2 {
			x = 2
		}
		if x > g.Width()-3 {
			x = g.Width() - 3
		}
		if y < 2 {
			y = 2
		}
		if y > g.Height()-3 {
			y = g.Height() - 3
		}
	}
}

// carveSpawnCorner opens a 3×3 pocket in a bottom corner quadrant and
// protects its floor so later carving cannot undermine the spawn.
func (b *Builder) carveSpawnCorner(g *grid.Grid) {
	cx := 3
	if b.rng.Intn(2) == 1 {
		cx = g.Width() - 4
	}
	cy := g.Height() - 5

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			g.Set(cx+dx, cy+dy, grid.Air)
		}
	}
	for dx := -1; dx <= 1; dx++ {
		b.protected.Put(grid.Point{X: cx + dx, Y: cy + 2})
	}
}

// carveDoorShelves guarantees each vertical edge a flat, clear shelf
// near the floor, so the door scan always has a candidate run.
func (b *Builder) carveDoorShelves(g *grid.Grid) {
	shelfY := g.Height() - 5
	_, ch := b.carveBlockSize()

	for _, x0 := range []int{1, g.Width() - 4} {
		for dx := 0; dx < 3; dx++ {
			for dy := 0; dy < ch; dy++ {
				g.Set(x0+dx, shelfY-dy, grid.Air)
			}
			b.protected.Put(grid.Point{X: x0 + dx, Y: shelfY + 1})
		}
	}
}

// reconnect merges disconnected open regions by carving straight
// corridors between the nearest sampled point pair, bounded by
// ReconnectAttempts. Corridors force-carve through protected tiles.
func (b *Builder) reconnect(g *grid.Grid) error {
	passable := func(k grid.Kind) bool { return !k.Blocks() }

	for attempt := 0; attempt < b.cfg.ReconnectAttempts; attempt++ {
		regions := grid.Regions(g, passable)
		if len(regions) <= 1 {
			return nil
		}

		a, c := b.nearestPair(regions[0], regions[1:])
		b.carveCorridor(g, a, c)
	}

	if len(grid.Regions(g, passable)) > 1 {
		return fmt.Errorf("reconnection budget exhausted")
	}
	return nil
}

// nearestPair samples points from the first region and each other
// region and returns the closest pair found.
func (b *Builder) nearestPair(first []grid.Point, rest [][]grid.Point) (grid.Point, grid.Point) {
	const samples = 20
	best := math.MaxFloat64
	var from, to grid.Point

	sampleA := samplePoints(b.rng, first, samples)
	for _, region := range rest {
		for _, p := range sampleA {
			for _, q := range samplePoints(b.rng, region, samples) {
				d := float64((p.X-q.X)*(p.X-q.X) + (p.Y-q.Y)*(p.Y-q.Y))
				if d < best {
					best = d
					from, to = p, q
				}
			}
		}
	}
	return from, to
}

func samplePoints(rng *rand.Rand, points []grid.Point, n int) []grid.Point {
	if len(points) <= n {
		return points
	}
	out := make([]grid.Point, n)
	for i := range out {
		out[i] = points[rng.Intn(len(points))]
	}
	return out
}

// carveCorridor opens a corridor-width line of blocks between two
// points, ignoring protection so reconnection always succeeds locally.
func (b *Builder) carveCorridor(g *grid.Grid, from, to grid.Point) {
	cw, ch := b.carveBlockSize()
	for _, p := range linePoints(from, to) {
		block := grid.Rect{X: p.X - cw/2, Y: p.Y - ch/2, W: cw, H: ch}.Clamp(g)
		block.ForEach(func(x, y int) {
			g.Set(x, y, grid.Air)
		})
	}
}

// linePoints walks a Bresenham line between two tiles, inclusive.
func linePoints(from, to grid.Point) []grid.Point {
	var points []grid.Point
	dx := absInt(to.X - from.X)
	dy := -absInt(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	err := dx + dy

	x, y := from.X, from.Y
	for {
		points = append(points, grid.Point{X: x, Y: y})
		if x == to.X && y == to.Y {
			return points
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// FallbackRoom builds the guaranteed-minimal room: flat floor, full
// clearance, doors on both edges. Used when every layout attempt
// fails; always traversable by construction.
func (b *Builder) FallbackRoom(depth int) *Room {
	g := grid.NewGrid(b.cfg.Width, b.cfg.Height, grid.Wall)
	floorY := g.Height() - 3
	for y := 1; y <= floorY; y++ {
		for x := 1; x < g.Width()-1; x++ {
			g.Set(x, y, grid.Air)
		}
	}
	g.SealBoundary()

	r := &Room{
		Grid:       g,
		Bounds:     grid.Rect{X: 0, Y: 0, W: b.cfg.Width, H: b.cfg.Height},
		DoorExits:  make(map[string]DoorTarget),
		Depth:      depth,
		Difficulty: DifficultyForDepth(depth, b.cfg),
		Fallback:   true,
	}

	r.Entrance = grid.Point{X: 1, Y: floorY}
	r.Exit = grid.Point{X: g.Width() - 2, Y: floorY}
	r.Doors = []PlacedDoor{
		{Key: DoorLeft, Pos: r.Entrance, Ground: grid.Point{X: r.Entrance.X, Y: r.Entrance.Y + 1}},
		{Key: DoorRight, Pos: r.Exit, Ground: grid.Point{X: r.Exit.X, Y: r.Exit.Y + 1}},
	}
	for _, d := range r.Doors {
		carve := grid.Rect{X: d.Pos.X - 1, Y: d.Pos.Y - 1, W: 3, H: 3}
		r.Areas = append(r.Areas,
			DoorCarve{Rect: carve, DoorKey: d.Key},
			ExclusionZone{Rect: carve.Expand(1)},
		)
	}
	b.placeSpawnAreas(r)
	return r
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
