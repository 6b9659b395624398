package terrain

import (
	"testing"

	"deepfall/pkg/engine/grid"
)

func floorOnly(k grid.Kind) bool {
	return k == grid.Floor
}

func TestBSPGeneratesRoomsAndFloor(t *testing.T) {
	l := (&BSPGenerator{}).Generate(40, 30, 42)

	if len(l.Rooms) < 1 {
		t.Fatal("BSP should produce at least one room")
	}
	floor := l.Grid.Count(grid.Floor)
	if float64(floor) < 0.1*float64(40*30) {
		t.Errorf("expected carved floor above 10%% of grid area, got %d tiles", floor)
	}
}

func TestGeneratorsAreDeterministic(t *testing.T) {
	for name, gen := range Generators {
		a := gen.Generate(50, 35, 1234)
		b := gen.Generate(50, 35, 1234)
		if !a.Grid.Equal(b.Grid) {
			t.Errorf("%s: identical seeds should produce identical grids", name)
		}
		if a.SpawnPoint != b.SpawnPoint || a.PortalPoint != b.PortalPoint {
			t.Errorf("%s: identical seeds should place identical anchors", name)
		}
	}
}

func TestGeneratorsSealBoundary(t *testing.T) {
	for name, gen := range Generators {
		for seed := int64(0); seed < 5; seed++ {
			l := gen.Generate(48, 32, seed)
			if !l.Grid.BoundarySealed() {
				t.Errorf("%s seed %d: boundary not sealed", name, seed)
			}
		}
	}
}

func TestGeneratorsProduceConnectedFloor(t *testing.T) {
	for name, gen := range Generators {
		for seed := int64(0); seed < 5; seed++ {
			l := gen.Generate(60, 40, seed)
			if l.Grid.Count(grid.Floor) == 0 {
				t.Errorf("%s seed %d: no floor carved", name, seed)
				continue
			}
			if ratio := grid.ConnectivityRatio(l.Grid, floorOnly); ratio < 1 {
				t.Errorf("%s seed %d: floor connectivity %.3f, want 1.0", name, seed, ratio)
			}
		}
	}
}

func TestSpecialRoomAssignment(t *testing.T) {
	l := (&BSPGenerator{}).Generate(60, 40, 7)

	spawn, ok := l.Roles[SpawnRoom]
	if !ok {
		t.Fatal("spawn room not assigned")
	}
	portal, ok := l.Roles[PortalRoom]
	if !ok {
		t.Fatal("portal room not assigned")
	}
	if len(l.Rooms) > 1 && spawn == portal {
		t.Error("spawn and portal should be distinct rooms")
	}

	if l.Grid.At(l.SpawnPoint.X, l.SpawnPoint.Y) != grid.Floor {
		t.Error("spawn point should sit on floor")
	}
	if l.Grid.At(l.PortalPoint.X, l.PortalPoint.Y) != grid.Floor {
		t.Error("portal point should sit on floor")
	}
}

func TestCaveChambersDetected(t *testing.T) {
	l := (&CellularGenerator{}).Generate(60, 40, 3)

	if len(l.Rooms) == 0 {
		t.Fatal("cave should detect at least one chamber")
	}
	for i, r := range l.Rooms {
		if r.Area() < chamberMinTiles {
			t.Errorf("chamber %d bounding box smaller than the significance threshold", i)
		}
	}
}

func TestOutdoorClearingsRecorded(t *testing.T) {
	l := (&NoiseGenerator{}).Generate(60, 40, 9)

	if len(l.Rooms) != clearingCount {
		t.Fatalf("expected %d clearings, got %d", clearingCount, len(l.Rooms))
	}
	for i, r := range l.Rooms {
		c := r.Center()
		if l.Grid.At(c.X, c.Y) != grid.Floor {
			t.Errorf("clearing %d center should be open floor", i)
		}
	}
}

func TestHybridRoughensDungeon(t *testing.T) {
	base := (&BSPGenerator{}).Generate(60, 40, 11)
	hybrid := (&HybridGenerator{}).Generate(60, 40, 11)

	if hybrid.Grid.Equal(base.Grid) {
		t.Error("hybrid should differ from the plain BSP dungeon")
	}
	if hybrid.Grid.Count(grid.Floor) >= base.Grid.Count(grid.Floor) {
		t.Error("hybrid sprinkle should trade some floor for walls")
	}
}

func TestForTypeFallsBackToDungeon(t *testing.T) {
	if ForType("volcano").Name() != "bsp" {
		t.Error("unknown level types should fall back to the dungeon generator")
	}
	if ForType(Cave).Name() != "cellular" {
		t.Error("known types should resolve to their generator")
	}
}
