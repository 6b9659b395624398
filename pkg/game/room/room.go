// Package room builds individual playable rooms: drunkard's-walk
// carving, flood-fill reconnection, edge door placement, speculative
// platform placement, and spawn-area layout, with a guaranteed
// fallback so callers always receive a traversable room.
package room

import (
	"math"

	"deepfall/pkg/engine/grid"
)

// Door keys for the two vertical edges. DoorExits is keyed by these.
const (
	DoorLeft  = "left"
	DoorRight = "right"
)

// Room is one generated playable space. Created by a builder attempt,
// mutated by door and platform placement, and replaced wholesale if an
// attempt fails validation.
type Room struct {
	Grid       *grid.Grid
	Bounds     grid.Rect
	Entrance   grid.Point
	Exit       grid.Point
	DoorExits  map[string]DoorTarget
	Doors      []PlacedDoor
	Areas      []Area
	SpawnAreas []SpawnArea
	Difficulty int
	Depth      int
	Fallback   bool
}

// PlacedDoor records where a door was carved and the ground tile the
// player stands on when using it.
type PlacedDoor struct {
	Key    string
	Pos    grid.Point
	Ground grid.Point
}

// DoorTarget names the room a door leads to and the coordinate of the
// matching door there. Rooms reference each other by id, never by
// pointer.
type DoorTarget struct {
	RoomID string
	Pos    grid.Point
}

// SpawnArea is a rectangle the surrounding game may populate with
// enemies, with a cap and difficulty computed from the room.
type SpawnArea struct {
	Rect            grid.Rect
	MaxEnemies      int
	DifficultyLevel int
}

// Area is a tagged region attached to a room for downstream door and
// decoration placement. The concrete variants are closed: DoorCarve,
// Platform, ExclusionZone, PocketRoom.
type Area interface {
	Bounds() grid.Rect
}

// DoorCarve marks the region carved for a door, keyed by door name.
type DoorCarve struct {
	Rect    grid.Rect
	DoorKey string
}

func (a DoorCarve) Bounds() grid.Rect { return a.Rect }

// Platform marks an accepted platform footprint.
type Platform struct {
	Rect grid.Rect
}

func (a Platform) Bounds() grid.Rect { return a.Rect }

// ExclusionZone marks a region no spawn area or platform may touch.
type ExclusionZone struct {
	Rect grid.Rect
}

func (a ExclusionZone) Bounds() grid.Rect { return a.Rect }

// PocketRoom marks a carved side pocket that needs an escape path.
type PocketRoom struct {
	Rect grid.Rect
}

func (a PocketRoom) Bounds() grid.Rect { return a.Rect }

// Config bounds every stochastic step of room generation. All retry
// points carry hard caps so worst-case latency is bounded.
type Config struct {
	Width             int
	Height            int
	MinCorridorWidth  int
	MinCorridorHeight int
	CarveTarget       float64 // fraction of interior tiles to open
	StepBudget        int
	ReconnectAttempts int
	PlatformAttempts  int
	SpawnAreaMin      int
	SpawnAreaMax      int
	SpawnSpacing      int
	MaxDifficulty     int
	DifficultyScale   float64
	EnemyBaseDensity  float64
	RegenAttempts     int
}

// DefaultConfig returns the standard room tuning.
func DefaultConfig() Config {
	return Config{
		Width:             60,
		Height:            40,
		MinCorridorWidth:  2,
		MinCorridorHeight: 3,
		CarveTarget:       0.33,
		StepBudget:        4000,
		ReconnectAttempts: 10,
		PlatformAttempts:  30,
		SpawnAreaMin:      1,
		SpawnAreaMax:      6,
		SpawnSpacing:      4,
		MaxDifficulty:     10,
		DifficultyScale:   0.3,
		EnemyBaseDensity:  0.01,
		RegenAttempts:     3,
	}
}

// DifficultyForDepth maps BFS depth from the start room onto a rating
// with logarithmic growth, so deep levels plateau instead of scaling
// without bound.
func DifficultyForDepth(depth int, cfg Config) int {
	d := 1 + int(math.Floor(math.Log(float64(depth+1))*cfg.DifficultyScale*10))
	if d > cfg.MaxDifficulty {
		d = cfg.MaxDifficulty
	}
	if d < 1 {
		d = 1
	}
	return d
}

// EnemyBudget caps total enemies for a room: area scaled by base
// density, raised 20% per difficulty step.
func EnemyBudget(area, difficulty int, cfg Config) int {
	budget := float64(area) * cfg.EnemyBaseDensity * (1 + 0.2*float64(difficulty))
	return int(budget)
}
