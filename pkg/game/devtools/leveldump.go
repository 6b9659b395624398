// Package devtools provides developer tools for testing and debugging.
package devtools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"deepfall/pkg/engine/grid"
	"deepfall/pkg/game/levelgraph"
	"deepfall/pkg/game/room"
	"deepfall/pkg/game/terrain"
	"deepfall/pkg/game/validate"
)

const levelDumpFilename = "level.txt"

// TileSymbol returns the single-character symbol for a tile.
func TileSymbol(k grid.Kind) rune {
	switch k {
	case grid.Wall:
		return '#'
	case grid.Floor:
		return ','
	case grid.OneWay:
		return '='
	default:
		return '.'
	}
}

// writeGrid writes the grid to f with an overlay of marker runes.
func writeGrid(f *os.File, g *grid.Grid, overlay map[grid.Point]rune) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if r, ok := overlay[grid.Point{X: x, Y: y}]; ok {
				fmt.Fprintf(f, "%c", r)
				continue
			}
			fmt.Fprintf(f, "%c", TileSymbol(g.At(x, y)))
		}
		fmt.Fprintln(f)
	}
}

// DumpLevelToFile writes a full debug dump of a macro level to
// level.txt: metadata, legend, the map with spawn/portal/enemy
// overlay, and the validation outcome. Format is human- and
// LLM-readable (sections, key: value, consistent structure).
func DumpLevelToFile(lvl *validate.GeneratedLevel) (string, error) {
	if lvl == nil || lvl.Layout == nil {
		return "", fmt.Errorf("no level")
	}

	absPath, err := filepath.Abs(levelDumpFilename)
	if err != nil {
		return "", err
	}
	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	g := lvl.Layout.Grid

	fmt.Fprintln(f, "=== LEVEL DUMP DEBUG (terrain, anchors, validation) ===")
	fmt.Fprintln(f, "")
	fmt.Fprintln(f, "--- Metadata ---")
	fmt.Fprintf(f, "level_type: %s\n", lvl.Type)
	fmt.Fprintf(f, "level_seed: %d\n", lvl.LevelSeed)
	fmt.Fprintf(f, "difficulty: %d\n", lvl.Difficulty)
	fmt.Fprintf(f, "grid_width: %d\n", g.Width())
	fmt.Fprintf(f, "grid_height: %d\n", g.Height())
	fmt.Fprintf(f, "coordinate_system: x,y (0-based, y grows downward)\n")
	fmt.Fprintf(f, "spawn: %d,%d\n", lvl.Layout.SpawnPoint.X, lvl.Layout.SpawnPoint.Y)
	fmt.Fprintf(f, "portal: %d,%d\n", lvl.Layout.PortalPoint.X, lvl.Layout.PortalPoint.Y)
	fmt.Fprintf(f, "rooms: %d\n", len(lvl.Layout.Rooms))
	fmt.Fprintf(f, "pipeline_state: %s\n", lvl.State)
	fmt.Fprintln(f, "")

	fmt.Fprintln(f, "--- Legend (tile symbols) ---")
	fmt.Fprintln(f, ", = floor  # = wall  . = air  = = one-way platform  @ = spawn  O = portal  e = enemy spawn")
	fmt.Fprintln(f, "")

	overlay := map[grid.Point]rune{}
	for _, p := range lvl.EnemySpawns {
		overlay[p] = 'e'
	}
	overlay[lvl.Layout.PortalPoint] = 'O'
	overlay[lvl.Layout.SpawnPoint] = '@'

	fmt.Fprintln(f, "--- Map ---")
	writeGrid(f, g, overlay)
	fmt.Fprintln(f, "")

	fmt.Fprintln(f, "--- Special rooms ---")
	roles := make([]terrain.RoomRole, 0, len(lvl.Layout.Roles))
	for role := range lvl.Layout.Roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(a, b int) bool { return roles[a] < roles[b] })
	for _, role := range roles {
		i := lvl.Layout.Roles[role]
		r := lvl.Layout.Rooms[i]
		fmt.Fprintf(f, "  role: %s room_index: %d bounds: %d,%d %dx%d\n", role, i, r.X, r.Y, r.W, r.H)
	}
	fmt.Fprintln(f, "")

	fmt.Fprintln(f, "--- Validation ---")
	fmt.Fprintf(f, "is_valid: %v\n", lvl.Result.IsValid)
	for _, issue := range lvl.Result.Issues {
		fmt.Fprintf(f, "  issue: %s\n", issue)
	}
	fmt.Fprintln(f, "")

	fmt.Fprintln(f, "=== END LEVEL DUMP ===")

	if err := f.Sync(); err != nil {
		return absPath, err
	}
	return absPath, nil
}

// DumpGraphToFile writes a debug dump of a multi-room level: the
// graph wiring first, then every room map with door overlays.
func DumpGraphToFile(lvl *levelgraph.Level) (string, error) {
	if lvl == nil || len(lvl.Rooms) == 0 {
		return "", fmt.Errorf("no rooms")
	}

	absPath, err := filepath.Abs(levelDumpFilename)
	if err != nil {
		return "", err
	}
	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fmt.Fprintln(f, "=== ROOM GRAPH DUMP DEBUG (wiring, room layouts) ===")
	fmt.Fprintln(f, "")
	fmt.Fprintln(f, "--- Metadata ---")
	fmt.Fprintf(f, "rooms: %d\n", len(lvl.Rooms))
	fmt.Fprintf(f, "start_room: %s\n", lvl.StartRoomID)
	fmt.Fprintf(f, "goal_room: %s\n", lvl.GoalRoomID)
	fmt.Fprintln(f, "")

	fmt.Fprintln(f, "--- Door links ---")
	for _, link := range lvl.DoorLinks {
		fmt.Fprintf(f, "  %s (%d,%d) -> %s (%d,%d)\n",
			link.FromRoom, link.FromPos.X, link.FromPos.Y,
			link.ToRoom, link.ToPos.X, link.ToPos.Y)
	}
	fmt.Fprintln(f, "")

	ids := make([]string, 0, len(lvl.Rooms))
	for id := range lvl.Rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		r := lvl.Rooms[id]
		fmt.Fprintf(f, "--- Room %s (depth %d, difficulty %d, fallback %v) ---\n", id, r.Depth, r.Difficulty, r.Fallback)
		writeGrid(f, r.Grid, map[grid.Point]rune{
			r.Entrance: '>',
			r.Exit:     '<',
		})
		writeSpawnAreas(f, r)
		fmt.Fprintln(f, "")
	}

	fmt.Fprintln(f, "=== END ROOM GRAPH DUMP ===")

	if err := f.Sync(); err != nil {
		return absPath, err
	}
	return absPath, nil
}

func writeSpawnAreas(f *os.File, r *room.Room) {
	for i, sa := range r.SpawnAreas {
		fmt.Fprintf(f, "  spawn_area: %d bounds: %d,%d %dx%d max_enemies: %d difficulty: %d\n",
			i, sa.Rect.X, sa.Rect.Y, sa.Rect.W, sa.Rect.H, sa.MaxEnemies, sa.DifficultyLevel)
	}
}
