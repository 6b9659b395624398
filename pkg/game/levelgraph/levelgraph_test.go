package levelgraph

import (
	"testing"

	"deepfall/pkg/game/traverse"
)

// smallConfig keeps rooms cheap enough to generate many per test.
func smallConfig(topology Topology, rooms int) Config {
	cfg := DefaultConfig()
	cfg.Topology = topology
	cfg.RoomCount = rooms
	cfg.Room.Width = 40
	cfg.Room.Height = 24
	return cfg
}

func TestLinearLevelIsAChain(t *testing.T) {
	const n = 5
	l := Build(smallConfig(Linear, n), 42)

	if len(l.Rooms) != n {
		t.Fatalf("expected %d rooms, got %d", n, len(l.Rooms))
	}
	if len(l.DoorLinks) != n-1 {
		t.Fatalf("linear level should have %d links, got %d", n-1, len(l.DoorLinks))
	}
	for i, link := range l.DoorLinks {
		if link.FromRoom != roomID(i) || link.ToRoom != roomID(i+1) {
			t.Errorf("link %d connects %s->%s, want %s->%s", i, link.FromRoom, link.ToRoom, roomID(i), roomID(i+1))
		}
	}
	if l.StartRoomID != "room_0" || l.GoalRoomID != "room_4" {
		t.Errorf("unexpected start/goal: %s/%s", l.StartRoomID, l.GoalRoomID)
	}
}

func TestDoorLinksCarryRealCoordinates(t *testing.T) {
	l := Build(smallConfig(Linear, 4), 7)

	for _, link := range l.DoorLinks {
		from := l.Rooms[link.FromRoom]
		to := l.Rooms[link.ToRoom]
		if link.FromPos != from.Exit {
			t.Errorf("link %s->%s FromPos does not match the source exit", link.FromRoom, link.ToRoom)
		}
		if link.ToPos != to.Entrance {
			t.Errorf("link %s->%s ToPos does not match the destination entrance", link.FromRoom, link.ToRoom)
		}
		if _, ok := from.DoorExits["to_"+link.ToRoom]; !ok {
			t.Errorf("source room %s missing door_exits entry for %s", link.FromRoom, link.ToRoom)
		}
	}
}

func TestEveryRoomReachableAllTopologies(t *testing.T) {
	for _, topology := range []Topology{Linear, Branching, Looping} {
		for seedValue := int64(0); seedValue < 4; seedValue++ {
			l := Build(smallConfig(topology, 7), seedValue)

			visited := map[string]bool{l.StartRoomID: true}
			queue := []string{l.StartRoomID}
			for len(queue) > 0 {
				current := queue[0]
				queue = queue[1:]
				for _, next := range undirectedNeighbors(l, current) {
					if !visited[next] {
						visited[next] = true
						queue = append(queue, next)
					}
				}
			}
			if len(visited) != len(l.Rooms) {
				t.Errorf("%s seed %d: only %d of %d rooms reachable", topology, seedValue, len(visited), len(l.Rooms))
			}
		}
	}
}

func undirectedNeighbors(l *Level, id string) []string {
	var out []string
	for _, link := range l.DoorLinks {
		if link.FromRoom == id {
			out = append(out, link.ToRoom)
		}
		if link.ToRoom == id {
			out = append(out, link.FromRoom)
		}
	}
	return out
}

func TestDifficultyNonDecreasingAlongChain(t *testing.T) {
	l := Build(smallConfig(Linear, 6), 11)

	prev := 0
	for i := 0; i < 6; i++ {
		r := l.Rooms[roomID(i)]
		if r.Difficulty < prev {
			t.Errorf("difficulty fell from %d to %d at %s", prev, r.Difficulty, roomID(i))
		}
		if r.Depth != i {
			t.Errorf("%s has depth %d, want %d", roomID(i), r.Depth, i)
		}
		prev = r.Difficulty
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	cfg := smallConfig(Branching, 6)

	a := Build(cfg, 99)
	b := Build(cfg, 99)

	if len(a.DoorLinks) != len(b.DoorLinks) {
		t.Fatal("identical seeds should produce identical link sets")
	}
	for i := range a.DoorLinks {
		if a.DoorLinks[i] != b.DoorLinks[i] {
			t.Errorf("door link %d differs between runs", i)
		}
	}
	for id, ra := range a.Rooms {
		if !ra.Grid.Equal(b.Rooms[id].Grid) {
			t.Errorf("room %s grid differs between runs", id)
		}
	}
}

func TestEveryRoomIsTraversable(t *testing.T) {
	cfg := smallConfig(Looping, 6)
	l := Build(cfg, 3)

	for id, r := range l.Rooms {
		if !traverse.Verify(r.Grid, r.Entrance, r.Exit, cfg.Profile) {
			t.Errorf("room %s is not traversable entrance to exit", id)
		}
	}
}

func TestLoopingHonorsBranchChance(t *testing.T) {
	cfg := smallConfig(Looping, 12)
	cfg.BranchChance = 1.0
	cfg.LoopChance = 0.0

	branching := cfg
	branching.Topology = Branching

	a := buildTopology(branching, 21)
	b := buildTopology(cfg, 21)

	// With a zero loop chance the looping topology is exactly the
	// branching one; branch rolls must use BranchChance, not LoopChance.
	if len(a) != len(b) {
		t.Fatalf("looping with no loops built %d edges, branching built %d", len(b), len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("edge %d differs: %v vs %v", i, b[i], a[i])
		}
	}
}

func TestSingleRoomLevel(t *testing.T) {
	l := Build(smallConfig(Linear, 1), 1)

	if len(l.Rooms) != 1 || len(l.DoorLinks) != 0 {
		t.Errorf("single-room level should have 1 room and 0 links, got %d/%d", len(l.Rooms), len(l.DoorLinks))
	}
	if l.StartRoomID != l.GoalRoomID {
		t.Error("single-room level start and goal should coincide")
	}
	if l.Rooms[l.StartRoomID] == nil {
		t.Error("start room should exist")
	}
}
