package room

import (
	"testing"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/game/traverse"
)

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	p := traverse.DefaultProfile()

	a := NewBuilder(cfg, p, 42).Generate(2)
	b := NewBuilder(cfg, p, 42).Generate(2)

	if !a.Grid.Equal(b.Grid) {
		t.Error("identical seeds should produce identical room grids")
	}
	if a.Entrance != b.Entrance || a.Exit != b.Exit {
		t.Error("identical seeds should place identical doors")
	}
	if len(a.SpawnAreas) != len(b.SpawnAreas) {
		t.Error("identical seeds should place identical spawn areas")
	}
}

func TestGenerateAlwaysTraversable(t *testing.T) {
	cfg := DefaultConfig()
	p := traverse.DefaultProfile()

	for seed := int64(0); seed < 10; seed++ {
		r := NewBuilder(cfg, p, seed).Generate(1)
		if !traverse.Verify(r.Grid, r.Entrance, r.Exit, p) {
			t.Errorf("seed %d: generated room is not traversable", seed)
		}
		if !r.Grid.BoundarySealed() {
			t.Errorf("seed %d: room boundary not sealed", seed)
		}
	}
}

func TestGenerateCarvesUsefulSpace(t *testing.T) {
	cfg := DefaultConfig()
	r := NewBuilder(cfg, traverse.DefaultProfile(), 7).Generate(0)

	open := r.Grid.Count(grid.Air) + r.Grid.Count(grid.OneWay)
	if float64(open) < 0.1*float64(r.Bounds.Area()) {
		t.Errorf("expected at least 10%% open space, got %d of %d tiles", open, r.Bounds.Area())
	}
}

func TestFallbackRoomIsTraversable(t *testing.T) {
	cfg := DefaultConfig()
	p := traverse.DefaultProfile()
	r := NewBuilder(cfg, p, 1).FallbackRoom(3)

	if !r.Fallback {
		t.Error("fallback room should be flagged")
	}
	if !traverse.Verify(r.Grid, r.Entrance, r.Exit, p) {
		t.Error("fallback room must always be traversable")
	}
	if !r.Grid.BoundarySealed() {
		t.Error("fallback room boundary must be sealed")
	}
	if len(r.Doors) != 2 {
		t.Errorf("fallback room should have 2 doors, got %d", len(r.Doors))
	}
}

func TestSpawnAreasRespectSpacingAndDoors(t *testing.T) {
	cfg := DefaultConfig()
	r := NewBuilder(cfg, traverse.DefaultProfile(), 11).Generate(4)

	var exclusions []grid.Rect
	for _, a := range r.Areas {
		if _, ok := a.(ExclusionZone); ok {
			exclusions = append(exclusions, a.Bounds())
		}
	}

	for i, sa := range r.SpawnAreas {
		for _, ex := range exclusions {
			if sa.Rect.Intersects(ex) {
				t.Errorf("spawn area %d overlaps a door exclusion zone", i)
			}
		}
		for j := i + 1; j < len(r.SpawnAreas); j++ {
			if sa.Rect.Expand(cfg.SpawnSpacing).Intersects(r.SpawnAreas[j].Rect) {
				t.Errorf("spawn areas %d and %d are closer than the minimum spacing", i, j)
			}
		}
		if sa.MaxEnemies < 1 {
			t.Errorf("spawn area %d has no enemy budget", i)
		}
		if sa.DifficultyLevel != r.Difficulty {
			t.Errorf("spawn area %d difficulty %d does not match room %d", i, sa.DifficultyLevel, r.Difficulty)
		}
	}
}

func TestPlatformAreasAreOneWay(t *testing.T) {
	cfg := DefaultConfig()
	r := NewBuilder(cfg, traverse.DefaultProfile(), 3).Generate(1)

	for _, a := range r.Areas {
		p, ok := a.(Platform)
		if !ok {
			continue
		}
		p.Rect.ForEach(func(x, y int) {
			if r.Grid.At(x, y) != grid.OneWay {
				t.Errorf("platform tile (%d,%d) is %v, want OneWay", x, y, r.Grid.At(x, y))
			}
		})
	}
}

func TestDifficultyForDepth(t *testing.T) {
	cfg := DefaultConfig()

	if d := DifficultyForDepth(0, cfg); d != 1 {
		t.Errorf("depth 0 should be difficulty 1, got %d", d)
	}

	prev := 0
	for depth := 0; depth < 50; depth++ {
		d := DifficultyForDepth(depth, cfg)
		if d < prev {
			t.Fatalf("difficulty decreased from %d to %d at depth %d", prev, d, depth)
		}
		if d > cfg.MaxDifficulty {
			t.Fatalf("difficulty %d exceeds cap at depth %d", d, depth)
		}
		prev = d
	}
}

func TestEnemyBudgetScalesWithDifficulty(t *testing.T) {
	cfg := DefaultConfig()

	low := EnemyBudget(2400, 1, cfg)
	high := EnemyBudget(2400, 5, cfg)
	if high <= low {
		t.Errorf("budget should grow with difficulty: %d vs %d", low, high)
	}
	if EnemyBudget(0, 3, cfg) != 0 {
		t.Error("zero-area room should have zero budget")
	}
}

func TestPlacePlatformsSurvivesTinyGrids(t *testing.T) {
	cfg := DefaultConfig()
	p := traverse.DefaultProfile()

	// Grids narrower than a platform proposal plus its margins must
	// not blow up the proposal roll.
	for _, dims := range []struct{ w, h int }{{7, 6}, {8, 7}, {9, 10}, {12, 6}} {
		for seed := int64(0); seed < 8; seed++ {
			g := grid.NewGrid(dims.w, dims.h, grid.Wall)
			r := &Room{
				Grid:      g,
				Bounds:    grid.Rect{X: 0, Y: 0, W: dims.w, H: dims.h},
				Entrance:  grid.Point{X: 1, Y: dims.h - 2},
				Exit:      grid.Point{X: dims.w - 2, Y: dims.h - 2},
				DoorExits: make(map[string]DoorTarget),
			}
			NewBuilder(cfg, p, seed).placePlatforms(r)
		}
	}
}

func TestDoorRecordsMatchGrid(t *testing.T) {
	cfg := DefaultConfig()
	p := traverse.DefaultProfile()
	r := NewBuilder(cfg, p, 9).Generate(0)

	for _, d := range r.Doors {
		if r.Grid.At(d.Pos.X, d.Pos.Y).Blocks() {
			t.Errorf("door %q cell (%d,%d) should be clear", d.Key, d.Pos.X, d.Pos.Y)
		}
		if !r.Grid.At(d.Ground.X, d.Ground.Y).Solid() {
			t.Errorf("door %q ground (%d,%d) should be solid", d.Key, d.Ground.X, d.Ground.Y)
		}
	}
}
