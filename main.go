package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/leonelquinteros/gotext"

	"deepfall/pkg/game/devtools"
	"deepfall/pkg/game/levelgraph"
	"deepfall/pkg/game/renderer"
	"deepfall/pkg/game/terrain"
	"deepfall/pkg/game/validate"
)

func initGotext() {
	gotext.Configure("locales", "en_US.utf8", "default")
}

// parseLevelType resolves the -type flag against the registered
// terrain generators.
func parseLevelType(name string) terrain.LevelType {
	levelType := terrain.LevelType(name)
	if _, ok := terrain.Generators[levelType]; !ok {
		fmt.Fprintf(os.Stderr, "unknown level type %q (dungeon, cave, outdoor, hybrid)\n", name)
		os.Exit(1)
	}
	return levelType
}

// parseTopology resolves the -topology flag.
func parseTopology(name string) levelgraph.Topology {
	switch levelgraph.Topology(name) {
	case levelgraph.Linear, levelgraph.Branching, levelgraph.Looping:
		return levelgraph.Topology(name)
	}
	fmt.Fprintf(os.Stderr, "unknown topology %q (linear, branching, looping)\n", name)
	os.Exit(1)
	return levelgraph.Linear
}

// previewLevel generates one macro level and prints it with its
// validation outcome.
func previewLevel(worldSeed int64, index int, levelType terrain.LevelType, difficulty, width, height int, dump bool) {
	pipeline := validate.NewPipeline(validate.DefaultConfig())
	lvl := pipeline.Generate(worldSeed, index, levelType, difficulty, width, height)

	renderer.PrintString("GT{LEVEL} %d (%s, ACTION{difficulty %d}, seed %d)\n\n", index, lvl.Type, lvl.Difficulty, lvl.LevelSeed)
	fmt.Print(renderer.RenderLevel(lvl))
	fmt.Println()
	renderer.PrintValidationSummary(lvl)

	if dump {
		writeDump(func() (string, error) { return devtools.DumpLevelToFile(lvl) })
	}
}

// previewGraph generates a multi-room level and prints every room in
// chain order plus the door wiring.
func previewGraph(levelSeed int64, rooms int, topology levelgraph.Topology, width, height int, dump bool) {
	cfg := levelgraph.DefaultConfig()
	cfg.RoomCount = rooms
	cfg.Topology = topology
	cfg.Room.Width = width
	cfg.Room.Height = height

	lvl := levelgraph.Build(cfg, levelSeed)

	for i := 0; i < rooms; i++ {
		id := fmt.Sprintf("room_%d", i)
		r := lvl.Rooms[id]
		if r == nil {
			continue
		}
		renderer.PrintString("GT{ROOM} %s (depth %d, ACTION{difficulty %d})\n", id, r.Depth, r.Difficulty)
		fmt.Print(renderer.RenderRoom(r))
		fmt.Println()
	}

	renderer.PrintString("GT{DOOR_LINKS}\n")
	for _, link := range lvl.DoorLinks {
		renderer.PrintBullet(fmt.Sprintf("%s (%d,%d) to %s (%d,%d)",
			link.FromRoom, link.FromPos.X, link.FromPos.Y,
			link.ToRoom, link.ToPos.X, link.ToPos.Y))
	}

	if dump {
		writeDump(func() (string, error) { return devtools.DumpGraphToFile(lvl) })
	}
}

func writeDump(dump func() (string, error)) {
	path, err := dump()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dump failed: %v\n", err)
		os.Exit(1)
	}
	renderer.PrintString("GT{DUMP_WRITTEN} %s\n", path)
}

func main() {
	worldSeed := flag.Int64("seed", 0, "world seed (0 picks one from the clock)")
	index := flag.Int("index", 0, "level index within the world")
	typeName := flag.String("type", "dungeon", "level type: dungeon, cave, outdoor, hybrid")
	difficulty := flag.Int("difficulty", 1, "difficulty modifier applied to the level")
	width := flag.Int("width", 80, "level width in tiles")
	height := flag.Int("height", 48, "level height in tiles")
	rooms := flag.Int("rooms", 0, "preview a multi-room level with this many rooms instead of a macro level")
	topologyName := flag.String("topology", "linear", "room graph topology: linear, branching, looping")
	dump := flag.Bool("dump", false, "also write a level.txt debug dump")
	flag.Parse()

	initGotext()
	renderer.InitColors()

	if *worldSeed == 0 {
		*worldSeed = time.Now().UnixNano()
	}

	if *rooms > 0 {
		previewGraph(*worldSeed, *rooms, parseTopology(*topologyName), *width, *height, *dump)
		return
	}
	previewLevel(*worldSeed, *index, parseLevelType(*typeName), *difficulty, *width, *height, *dump)
}
