package validate

import (
	"math/rand"
	"strings"
	"testing"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/game/terrain"
)

// openLayout builds a fully open rectangular layout with spawn and
// portal in opposite corners.
func openLayout() *terrain.Layout {
	g := grid.NewGrid(20, 12, grid.Wall)
	for y := 1; y < 11; y++ {
		for x := 1; x < 19; x++ {
			g.Set(x, y, grid.Floor)
		}
	}
	return &terrain.Layout{
		Grid:        g,
		Rooms:       []grid.Rect{{X: 1, Y: 1, W: 18, H: 10}},
		SpawnPoint:  grid.Point{X: 2, Y: 2},
		PortalPoint: grid.Point{X: 17, Y: 9},
	}
}

func TestValidatorAcceptsOpenLayout(t *testing.T) {
	v := NewValidator(DefaultConfig())
	enemies := []grid.Point{{X: 10, Y: 5}}

	result := v.Validate(openLayout(), enemies)
	if !result.IsValid {
		t.Errorf("open layout should validate, issues: %v", result.Issues)
	}
}

func hasIssue(r Result, substr string) bool {
	for _, issue := range r.Issues {
		if strings.Contains(issue, substr) {
			return true
		}
	}
	return false
}

func TestValidatorFlagsBrokenBoundary(t *testing.T) {
	l := openLayout()
	l.Grid.Set(0, 5, grid.Floor)

	result := NewValidator(DefaultConfig()).Validate(l, []grid.Point{{X: 10, Y: 5}})
	if result.IsValid || !hasIssue(result, "boundary") {
		t.Errorf("expected a boundary issue, got %v", result.Issues)
	}
}

func TestValidatorFlagsUnreachablePortal(t *testing.T) {
	l := openLayout()
	// Wall off the portal corner completely.
	for y := 7; y < 12; y++ {
		l.Grid.Set(15, y, grid.Wall)
	}
	for x := 15; x < 20; x++ {
		l.Grid.Set(x, 7, grid.Wall)
	}

	result := NewValidator(DefaultConfig()).Validate(l, []grid.Point{{X: 10, Y: 5}})
	if result.IsValid || !hasIssue(result, "portal") {
		t.Errorf("expected a portal issue, got %v", result.Issues)
	}
}

func TestValidatorFlagsMissingEnemies(t *testing.T) {
	result := NewValidator(DefaultConfig()).Validate(openLayout(), nil)
	if result.IsValid || !hasIssue(result, "enemy") {
		t.Errorf("expected an enemy spawn issue, got %v", result.Issues)
	}
}

func TestRepairRestoresValidity(t *testing.T) {
	cfg := DefaultConfig()
	v := NewValidator(cfg)
	l := openLayout()
	// Break three things at once: boundary, portal, enemies.
	l.Grid.Set(0, 5, grid.Floor)
	l.PortalPoint = grid.Point{X: 19, Y: 11}
	var enemies []grid.Point

	if v.Validate(l, enemies).IsValid {
		t.Fatal("layout should start invalid")
	}

	rng := rand.New(rand.NewSource(1))
	enemies, applied := v.Repair(l, enemies, rng)
	if len(applied) == 0 {
		t.Fatal("repair should report what it patched")
	}

	result := v.Validate(l, enemies)
	if !result.IsValid {
		t.Errorf("layout should validate after repair, issues: %v", result.Issues)
	}
}

func TestPickSpawnsKeepsDistance(t *testing.T) {
	cfg := DefaultConfig()
	l := openLayout()
	rng := rand.New(rand.NewSource(2))

	spawns := PickSpawns(l, rng, 5, cfg.MinSpawnDistance)
	if len(spawns) != 5 {
		t.Fatalf("expected 5 spawns, got %d", len(spawns))
	}
	for _, p := range spawns {
		dx := p.X - l.SpawnPoint.X
		dy := p.Y - l.SpawnPoint.Y
		if dx*dx+dy*dy < cfg.MinSpawnDistance*cfg.MinSpawnDistance {
			t.Errorf("spawn (%d,%d) is inside the exclusion radius", p.X, p.Y)
		}
	}
}

func TestPickSpawnsAreDistinct(t *testing.T) {
	l := openLayout()
	rng := rand.New(rand.NewSource(3))

	spawns := PickSpawns(l, rng, 8, 0)
	if len(spawns) != 8 {
		t.Fatalf("expected 8 spawns, got %d", len(spawns))
	}
	seen := make(map[grid.Point]bool)
	for _, p := range spawns {
		if seen[p] {
			t.Errorf("spawn (%d,%d) picked twice", p.X, p.Y)
		}
		seen[p] = true
	}
}

func TestPipelineAlwaysReturnsLevel(t *testing.T) {
	p := NewPipeline(DefaultConfig())

	for _, levelType := range []terrain.LevelType{terrain.Dungeon, terrain.Cave, terrain.Outdoor, terrain.Hybrid} {
		for index := 0; index < 3; index++ {
			lvl := p.Generate(99, index, levelType, 2, 60, 40)
			if lvl == nil || lvl.Layout == nil {
				t.Fatalf("%s level %d: pipeline returned nothing", levelType, index)
			}
			if lvl.State != Accepted && lvl.State != Fallback {
				t.Errorf("%s level %d: terminal state %s", levelType, index, lvl.State)
			}
			if lvl.State == Accepted && !lvl.Result.IsValid {
				t.Errorf("%s level %d: accepted but invalid", levelType, index)
			}
			if !lvl.Layout.Grid.BoundarySealed() {
				t.Errorf("%s level %d: boundary not sealed", levelType, index)
			}
		}
	}
}

func TestPipelineIsDeterministic(t *testing.T) {
	p := NewPipeline(DefaultConfig())

	a := p.Generate(7, 1, terrain.Dungeon, 3, 60, 40)
	b := p.Generate(7, 1, terrain.Dungeon, 3, 60, 40)

	if !a.Layout.Grid.Equal(b.Layout.Grid) {
		t.Error("identical inputs should generate identical grids")
	}
	if len(a.EnemySpawns) != len(b.EnemySpawns) {
		t.Fatal("identical inputs should generate the same spawn count")
	}
	for i := range a.EnemySpawns {
		if a.EnemySpawns[i] != b.EnemySpawns[i] {
			t.Errorf("enemy spawn %d differs between runs", i)
		}
	}
}

func TestDifficultyModifierOnlyAtThree(t *testing.T) {
	p := NewPipeline(DefaultConfig())

	easy := p.Generate(5, 0, terrain.Dungeon, 1, 60, 40)
	hard := p.Generate(5, 0, terrain.Dungeon, 3, 60, 40)

	if easy.Layout.Grid.Equal(hard.Layout.Grid) {
		t.Error("difficulty 3 should roughen the grid with extra walls")
	}
}
