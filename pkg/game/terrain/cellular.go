package terrain

import (
	"math/rand"

	"deepfall/pkg/engine/grid"
)

const (
	caveDensity     = 0.45
	caveIterations  = 5
	chamberMinTiles = 10
)

// CellularGenerator builds organic cave levels: random seed grid,
// smoothing automaton, then tunneling to merge isolated pockets.
type CellularGenerator struct{}

func (gen *CellularGenerator) Name() string {
	return "cellular"
}

func (gen *CellularGenerator) Generate(width, height int, seed int64) *Layout {
	rng := rand.New(rand.NewSource(seed))
	g := grid.NewGrid(width, height, grid.Wall)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if rng.Float64() >= caveDensity {
				g.Set(x, y, grid.Floor)
			}
		}
	}

	for i := 0; i < caveIterations; i++ {
		g = smooth(g)
	}

	reconnectFloor(g)

	l := &Layout{
		Grid:  g,
		Rooms: chambers(g),
	}
	assignRoles(l)
	g.SealBoundary()
	return l
}

// smooth applies one automaton step: a cell becomes Wall when 5 or
// more of its 8 neighbors are walls. Out-of-bounds counts as wall,
// which erodes open space near the edges.
func smooth(g *grid.Grid) *grid.Grid {
	next := grid.NewGrid(g.Width(), g.Height(), grid.Wall)
	for y := 1; y < g.Height()-1; y++ {
		for x := 1; x < g.Width()-1; x++ {
			walls := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if g.At(x+dx, y+dy) == grid.Wall {
						walls++
					}
				}
			}
			if walls < 5 {
				next.Set(x, y, grid.Floor)
			}
		}
	}
	return next
}

// Reconnect merges disconnected floor pockets into one region. The
// difficulty modifier uses it after sprinkling extra walls over an
// already-generated layout.
func Reconnect(g *grid.Grid) {
	reconnectFloor(g)
}

// reconnectFloor merges every isolated floor pocket into the region
// containing the first floor tile, tunneling an axis-aligned corridor
// from each pocket to the nearest tile of the growing reached region.
func reconnectFloor(g *grid.Grid) {
	passable := func(k grid.Kind) bool { return k == grid.Floor }

	for {
		regions := grid.Regions(g, passable)
		if len(regions) <= 1 {
			return
		}

		reached := regions[0]
		pocket := regions[1]
		from, to := nearestTiles(pocket, reached)
		tunnel(g, from, to)
	}
}

// nearestTiles finds the closest pair between two tile sets, stepping
// through larger sets to keep the scan bounded.
func nearestTiles(a, b []grid.Point) (grid.Point, grid.Point) {
	stepA := 1 + len(a)/64
	stepB := 1 + len(b)/64
	best := -1
	var pa, pb grid.Point
	for i := 0; i < len(a); i += stepA {
		for j := 0; j < len(b); j += stepB {
			d := sqDist(a[i], b[j])
			if best < 0 || d < best {
				best = d
				pa, pb = a[i], b[j]
			}
		}
	}
	return pa, pb
}

// tunnel digs a 2-wide axis-aligned corridor: horizontal run first,
// then vertical.
func tunnel(g *grid.Grid, from, to grid.Point) {
	x, y := from.X, from.Y
	for x != to.X {
		g.Set(x, y, grid.Floor)
		g.Set(x, y+1, grid.Floor)
		if to.X > x {
			x++
		} else {
			x--
		}
	}
	for y != to.Y {
		g.Set(x, y, grid.Floor)
		g.Set(x+1, y, grid.Floor)
		if to.Y > y {
			y++
		} else {
			y--
		}
	}
	g.Set(x, y, grid.Floor)
}

// chambers finds significant open pockets and records their bounding
// boxes as pseudo-rooms for role assignment.
func chambers(g *grid.Grid) []grid.Rect {
	var rooms []grid.Rect
	for _, region := range grid.Regions(g, func(k grid.Kind) bool { return k == grid.Floor }) {
		if len(region) < chamberMinTiles {
			continue
		}
		rooms = append(rooms, boundingRect(region))
	}
	return rooms
}

func boundingRect(tiles []grid.Point) grid.Rect {
	minX, minY := tiles[0].X, tiles[0].Y
	maxX, maxY := minX, minY
	for _, p := range tiles {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return grid.Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
}
