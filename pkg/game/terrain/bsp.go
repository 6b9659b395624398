package terrain

import (
	"math/rand"
	"sort"

	"deepfall/pkg/engine/grid"
)

const (
	minRoomSize   = 5
	maxRoomSize   = 11
	corridorWidth = 2
)

// BSPGenerator builds classic dungeon levels: recursive binary space
// partition into leaves, one room per leaf, rooms joined by L-shaped
// corridors.
type BSPGenerator struct{}

func (gen *BSPGenerator) Name() string {
	return "bsp"
}

func (gen *BSPGenerator) Generate(width, height int, seed int64) *Layout {
	rng := rand.New(rand.NewSource(seed))
	g := grid.NewGrid(width, height, grid.Wall)

	root := &bspNode{bounds: grid.Rect{X: 1, Y: 1, W: width - 2, H: height - 2}}
	root.split(rng, true)

	var rooms []grid.Rect
	root.placeRooms(rng, &rooms)
	for _, r := range rooms {
		carveRect(g, r)
	}

	corridors := connectRooms(g, rng, rooms)

	l := &Layout{
		Grid:  g,
		Rooms: append(rooms, corridors...),
	}
	assignRoles(l)
	carveFeatures(l)
	g.SealBoundary()
	return l
}

type bspNode struct {
	bounds      grid.Rect
	left, right *bspNode
	room        grid.Rect
	hasRoom     bool
}

// split recursively partitions the node, alternating axes. A node
// only splits while both halves can still hold a minimum room.
func (n *bspNode) split(rng *rand.Rand, vertical bool) {
	const pad = 2 // gap between sibling leaves so rooms never merge

	if vertical && n.bounds.W >= 2*minRoomSize+pad {
		cut := minRoomSize + rng.Intn(n.bounds.W-2*minRoomSize-pad+1)
		n.left = &bspNode{bounds: grid.Rect{X: n.bounds.X, Y: n.bounds.Y, W: cut, H: n.bounds.H}}
		n.right = &bspNode{bounds: grid.Rect{X: n.bounds.X + cut + pad, Y: n.bounds.Y, W: n.bounds.W - cut - pad, H: n.bounds.H}}
	} else if !vertical && n.bounds.H >= 2*minRoomSize+pad {
		cut := minRoomSize + rng.Intn(n.bounds.H-2*minRoomSize-pad+1)
		n.left = &bspNode{bounds: grid.Rect{X: n.bounds.X, Y: n.bounds.Y, W: n.bounds.W, H: cut}}
		n.right = &bspNode{bounds: grid.Rect{X: n.bounds.X, Y: n.bounds.Y + cut + pad, W: n.bounds.W, H: n.bounds.H - cut - pad}}
	} else if n.bounds.W >= 2*minRoomSize+pad || n.bounds.H >= 2*minRoomSize+pad {
		// The preferred axis is too small; retry on the other one.
		n.split(rng, !vertical)
		return
	} else {
		return
	}

	n.left.split(rng, !vertical)
	n.right.split(rng, !vertical)
}

// placeRooms puts a randomly sized room inside every leaf that can
// hold one.
func (n *bspNode) placeRooms(rng *rand.Rand, rooms *[]grid.Rect) {
	if n.left != nil {
		n.left.placeRooms(rng, rooms)
		n.right.placeRooms(rng, rooms)
		return
	}
	if n.bounds.W < minRoomSize || n.bounds.H < minRoomSize {
		return
	}

	w := roomSide(rng, n.bounds.W)
	h := roomSide(rng, n.bounds.H)
	n.room = grid.Rect{
		X: n.bounds.X + rng.Intn(n.bounds.W-w+1),
		Y: n.bounds.Y + rng.Intn(n.bounds.H-h+1),
		W: w,
		H: h,
	}
	n.hasRoom = true
	*rooms = append(*rooms, n.room)
}

func roomSide(rng *rand.Rand, leaf int) int {
	max := maxRoomSize
	if leaf < max {
		max = leaf
	}
	return minRoomSize + rng.Intn(max-minRoomSize+1)
}

// connectRooms joins every room to its nearest already-connected
// neighbor with an L-shaped corridor, so the dungeon forms a single
// component. Returns the corridor segments as pseudo-rooms.
func connectRooms(g *grid.Grid, rng *rand.Rand, rooms []grid.Rect) []grid.Rect {
	if len(rooms) < 2 {
		return nil
	}

	order := make([]int, len(rooms))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return rooms[order[a]].Center().X < rooms[order[b]].Center().X
	})

	var corridors []grid.Rect
	connected := []int{order[0]}
	for _, i := range order[1:] {
		nearest := connected[0]
		for _, j := range connected {
			if sqDist(rooms[i].Center(), rooms[j].Center()) < sqDist(rooms[i].Center(), rooms[nearest].Center()) {
				nearest = j
			}
		}
		corridors = append(corridors, carveL(g, rng, rooms[i].Center(), rooms[nearest].Center())...)
		connected = append(connected, i)
	}
	return corridors
}

// carveL digs a two-segment corridor between two points, horizontal
// first or vertical first on a coin flip.
func carveL(g *grid.Grid, rng *rand.Rand, from, to grid.Point) []grid.Rect {
	var segs []grid.Rect
	if rng.Intn(2) == 0 {
		segs = append(segs, hSegment(from.Y, from.X, to.X), vSegment(to.X, from.Y, to.Y))
	} else {
		segs = append(segs, vSegment(from.X, from.Y, to.Y), hSegment(to.Y, from.X, to.X))
	}
	for i, s := range segs {
		s = s.Clamp(g)
		segs[i] = s
		carveRect(g, s)
	}
	return segs
}

func hSegment(y, x0, x1 int) grid.Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	return grid.Rect{X: x0, Y: y, W: x1 - x0 + 1, H: corridorWidth}
}

func vSegment(x, y0, y1 int) grid.Rect {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return grid.Rect{X: x, Y: y0, W: corridorWidth, H: y1 - y0 + 1}
}

func carveRect(g *grid.Grid, r grid.Rect) {
	r.Clamp(g).ForEach(func(x, y int) {
		g.Set(x, y, grid.Floor)
	})
}
