// Package grid provides the tile grid that every generator in the
// pipeline carves into, plus flood-fill connectivity queries and the
// speculative patch/rollback helper used by platform placement.
package grid

// Kind is the tile encoding. The module uses the four-state scheme
// everywhere; macro terrain generators only ever emit Floor and Wall.
type Kind uint8

const (
	// Air is empty, passable space.
	Air Kind = iota
	// Floor is walkable carved ground in macro terrain grids.
	Floor
	// Wall is fully solid.
	Wall
	// OneWay is solid when landed on from above and passable from
	// below. Placed platforms use it so a staircase never seals off
	// the space underneath.
	OneWay
)

// Solid reports whether the tile supports standing on top of it.
func (k Kind) Solid() bool {
	return k == Wall || k == Floor || k == OneWay
}

// Blocks reports whether the tile obstructs a body or a jump arc
// passing through it. OneWay platforms do not block from below.
func (k Kind) Blocks() bool {
	return k == Wall || k == Floor
}

// Point is a tile coordinate. X grows rightward, Y grows downward.
type Point struct {
	X, Y int
}

// Grid is a dense W×H field of tiles with encapsulated storage.
type Grid struct {
	tiles  []Kind
	width  int
	height int
}

// NewGrid creates a grid with every tile set to fill.
func NewGrid(width, height int, fill Kind) *Grid {
	if width <= 0 || height <= 0 {
		panic("Grid dimensions must be positive")
	}
	g := &Grid{
		tiles:  make([]Kind, width*height),
		width:  width,
		height: height,
	}
	if fill != Air {
		for i := range g.tiles {
			g.tiles[i] = fill
		}
	}
	return g
}

// Width returns the number of columns in the grid.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows in the grid.
func (g *Grid) Height() int {
	return g.height
}

// InBounds checks if a position is within grid bounds.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Interior checks if a position is inside the playable area, i.e. not
// on the one-tile boundary ring.
func (g *Grid) Interior(x, y int) bool {
	return x >= 1 && x < g.width-1 && y >= 1 && y < g.height-1
}

// OnBoundary checks if a position is on the outer ring of the grid.
func (g *Grid) OnBoundary(x, y int) bool {
	return g.InBounds(x, y) && !g.Interior(x, y)
}

// At returns the tile at (x, y). Out-of-bounds reads return Wall so
// neighbor counts treat the world outside the grid as solid.
func (g *Grid) At(x, y int) Kind {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g.tiles[y*g.width+x]
}

// Set writes the tile at (x, y). Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, k Kind) {
	if !g.InBounds(x, y) {
		return
	}
	g.tiles[y*g.width+x] = k
}

// SealBoundary forces every tile on the outer ring to Wall. Run as the
// final safety pass of every generator so no path exits the map.
func (g *Grid) SealBoundary() {
	for x := 0; x < g.width; x++ {
		g.Set(x, 0, Wall)
		g.Set(x, g.height-1, Wall)
	}
	for y := 0; y < g.height; y++ {
		g.Set(0, y, Wall)
		g.Set(g.width-1, y, Wall)
	}
}

// BoundarySealed reports whether every tile on the outer ring is solid.
func (g *Grid) BoundarySealed() bool {
	for x := 0; x < g.width; x++ {
		if !g.At(x, 0).Solid() || !g.At(x, g.height-1).Solid() {
			return false
		}
	}
	for y := 0; y < g.height; y++ {
		if !g.At(0, y).Solid() || !g.At(g.width-1, y).Solid() {
			return false
		}
	}
	return true
}

// Count returns the number of tiles of the given kind.
func (g *Grid) Count(k Kind) int {
	n := 0
	for _, t := range g.tiles {
		if t == k {
			n++
		}
	}
	return n
}

// ForEach iterates over all tiles, calling fn for each.
func (g *Grid) ForEach(fn func(x, y int, k Kind)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			fn(x, y, g.tiles[y*g.width+x])
		}
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		tiles:  make([]Kind, len(g.tiles)),
		width:  g.width,
		height: g.height,
	}
	copy(c.tiles, g.tiles)
	return c
}

// Equal reports whether two grids have identical dimensions and tiles.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	for i, t := range g.tiles {
		if other.tiles[i] != t {
			return false
		}
	}
	return true
}
