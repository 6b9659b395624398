// Package levelgraph wires generated rooms into a multi-room level:
// linear, branching, or looping topologies, per-node seeds and BFS
// depths, and door links carrying the physical coordinates on both
// sides. A topology that fails its reachability check falls back to
// the guaranteed-connected linear chain.
package levelgraph

import (
	"fmt"
	"log"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/engine/seed"
	"deepfall/pkg/game/room"
	"deepfall/pkg/game/stairs"
	"deepfall/pkg/game/traverse"
)

// Topology selects the level graph shape.
type Topology string

const (
	Linear    Topology = "linear"
	Branching Topology = "branching"
	Looping   Topology = "looping"
)

// DoorLink is a directed connection between two rooms, carrying the
// door coordinates recorded in both.
type DoorLink struct {
	FromRoom string
	ToRoom   string
	FromPos  grid.Point
	ToPos    grid.Point
}

// Level is the assembled multi-room output. Rooms reference each
// other only through ids in this structure.
type Level struct {
	Rooms       map[string]*room.Room
	Adjacency   map[string][]string
	DoorLinks   []DoorLink
	StartRoomID string
	GoalRoomID  string
}

// Config tunes graph construction and the per-room builders.
type Config struct {
	RoomCount    int
	Topology     Topology
	BranchChance float64
	LoopChance   float64
	Room         room.Config
	Profile      traverse.Profile
}

// DefaultConfig returns the standard level graph tuning.
func DefaultConfig() Config {
	return Config{
		RoomCount:    6,
		Topology:     Linear,
		BranchChance: 0.5,
		LoopChance:   0.4,
		Room:         room.DefaultConfig(),
		Profile:      traverse.DefaultProfile(),
	}
}

// edge is a directed room connection in build order.
type edge struct {
	from, to int
}

// Build generates the full level for one seed: topology, reachability
// check, per-node rooms with derived seeds and depths, staircase
// reinforcement, and door links.
func Build(cfg Config, levelSeed int64) *Level {
	if cfg.RoomCount < 1 {
		cfg.RoomCount = 1
	}

	edges := buildTopology(cfg, levelSeed)
	if !allReachable(cfg.RoomCount, edges) {
		log.Printf("topology %s left nodes unreachable, falling back to linear", cfg.Topology)
		edges = linearEdges(cfg.RoomCount)
	}

	depths := bfsDepths(cfg.RoomCount, edges)

	l := &Level{
		Rooms:       make(map[string]*room.Room),
		Adjacency:   make(map[string][]string),
		StartRoomID: roomID(0),
		GoalRoomID:  roomID(cfg.RoomCount - 1),
	}

	for i := 0; i < cfg.RoomCount; i++ {
		id := roomID(i)
		nodeSeed := seed.Derive(levelSeed, id)
		r := room.NewBuilder(cfg.Room, cfg.Profile, nodeSeed).Generate(depths[i])
		stairs.New(cfg.Profile, seed.Derive(nodeSeed, "stairs")).Apply(r)
		l.Rooms[id] = r
	}

	for _, e := range edges {
		from := l.Rooms[roomID(e.from)]
		to := l.Rooms[roomID(e.to)]
		if from.Exit == (grid.Point{}) || to.Entrance == (grid.Point{}) {
			continue
		}

		l.Adjacency[roomID(e.from)] = append(l.Adjacency[roomID(e.from)], roomID(e.to))
		l.DoorLinks = append(l.DoorLinks, DoorLink{
			FromRoom: roomID(e.from),
			ToRoom:   roomID(e.to),
			FromPos:  from.Exit,
			ToPos:    to.Entrance,
		})
		from.DoorExits["to_"+roomID(e.to)] = room.DoorTarget{RoomID: roomID(e.to), Pos: to.Entrance}
		to.DoorExits["from_"+roomID(e.from)] = room.DoorTarget{RoomID: roomID(e.from), Pos: from.Exit}
	}

	// Skipped links can strand a node; a linear rebuild is always
	// wirable because every room has both doors.
	if !linksCoverAll(cfg.RoomCount, l.DoorLinks) {
		log.Print("door wiring left nodes unlinked, rebuilding as linear chain")
		return buildLinear(cfg, levelSeed)
	}

	return l
}

// buildLinear is the guaranteed path: a strict chain with every link
// wired.
func buildLinear(cfg Config, levelSeed int64) *Level {
	cfg.Topology = Linear
	// Rooms always carry valid doors, so a linear Build cannot recurse.
	return Build(cfg, levelSeed)
}

func roomID(i int) string {
	return fmt.Sprintf("room_%d", i)
}

// buildTopology produces the directed edge list for the configured
// shape.
func buildTopology(cfg Config, levelSeed int64) []edge {
	switch cfg.Topology {
	case Branching:
		return branchingEdges(cfg, levelSeed)
	case Looping:
		edges := branchingEdges(cfg, levelSeed)
		return appendLoops(cfg, levelSeed, edges)
	default:
		return linearEdges(cfg.RoomCount)
	}
}

func linearEdges(n int) []edge {
	var edges []edge
	for i := 0; i+1 < n; i++ {
		edges = append(edges, edge{from: i, to: i + 1})
	}
	return edges
}

// branchingEdges builds a main path of max(3, n/2) nodes and hangs
// the remaining nodes off it as branches. Each branch either dead
// ends or reconnects two main-path nodes ahead.
func branchingEdges(cfg Config, levelSeed int64) []edge {
	n := cfg.RoomCount
	rng := seed.Rand(levelSeed, seed.Structure)

	mainLen := n/2
	if mainLen < 3 {
		mainLen = 3
	}
	if mainLen > n {
		mainLen = n
	}

	edges := linearEdges(mainLen)
	for i := mainLen; i < n; i++ {
		anchor := rng.Intn(mainLen)
		edges = append(edges, edge{from: anchor, to: i})
		if rng.Float64() < cfg.BranchChance && anchor+2 < mainLen {
			edges = append(edges, edge{from: i, to: anchor + 2})
		}
	}
	return edges
}

// appendLoops adds probabilistic forward edges within a bounded
// lookahead, turning some corridors into cycles.
func appendLoops(cfg Config, levelSeed int64, edges []edge) []edge {
	rng := seed.Rand(levelSeed, seed.Details)
	for i := 0; i < cfg.RoomCount; i++ {
		if rng.Float64() >= cfg.LoopChance {
			continue
		}
		ahead := 2 + rng.Intn(3)
		if i+ahead < cfg.RoomCount {
			edges = append(edges, edge{from: i + ahead, to: i})
		}
	}
	return edges
}

// allReachable checks that BFS from node 0 over the undirected view
// of the edges covers every node.
func allReachable(n int, edges []edge) bool {
	return len(reachableNodes(n, edges)) == n
}

// bfsDepths computes each node's distance from node 0, feeding the
// difficulty curve. Unreachable nodes get depth 0, but they never
// survive the reachability check anyway.
func bfsDepths(n int, edges []edge) []int {
	depths := bfsOrder(n, edges)
	for i, d := range depths {
		if d < 0 {
			depths[i] = 0
		}
	}
	return depths
}

func reachableNodes(n int, edges []edge) []int {
	order := bfsOrder(n, edges)
	var nodes []int
	for i, d := range order {
		if d >= 0 {
			nodes = append(nodes, i)
		}
	}
	return nodes
}

// bfsOrder returns per-node BFS depth from node 0, -1 if unreachable.
func bfsOrder(n int, edges []edge) []int {
	neighbors := make([][]int, n)
	for _, e := range edges {
		if e.from < n && e.to < n {
			neighbors[e.from] = append(neighbors[e.from], e.to)
			neighbors[e.to] = append(neighbors[e.to], e.from)
		}
	}

	depths := make([]int, n)
	for i := range depths {
		depths[i] = -1
	}
	depths[0] = 0
	queue := []int{0}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range neighbors[current] {
			if depths[next] < 0 {
				depths[next] = depths[current] + 1
				queue = append(queue, next)
			}
		}
	}
	return depths
}

// linksCoverAll checks that every room appears in at least one door
// link (single-room levels trivially pass).
func linksCoverAll(n int, links []DoorLink) bool {
	if n <= 1 {
		return true
	}
	seen := make(map[string]bool)
	for _, l := range links {
		seen[l.FromRoom] = true
		seen[l.ToRoom] = true
	}
	return len(seen) == n
}
