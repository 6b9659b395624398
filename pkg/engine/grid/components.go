package grid

import "github.com/zyedidia/generic/mapset"

// FloodFill returns the set of tiles 4-connected to start for which
// passable returns true. If start itself is not passable the result is
// empty.
func FloodFill(g *Grid, start Point, passable func(Kind) bool) mapset.Set[Point] {
	visited := mapset.New[Point]()
	if !g.InBounds(start.X, start.Y) || !passable(g.At(start.X, start.Y)) {
		return visited
	}

	queue := []Point{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited.Has(current) {
			continue
		}
		visited.Put(current)

		neighbors := []Point{
			{current.X, current.Y - 1},
			{current.X + 1, current.Y},
			{current.X, current.Y + 1},
			{current.X - 1, current.Y},
		}
		for _, n := range neighbors {
			if g.InBounds(n.X, n.Y) && !visited.Has(n) && passable(g.At(n.X, n.Y)) {
				queue = append(queue, n)
			}
		}
	}

	return visited
}

// Regions partitions all passable tiles into 4-connected components.
// Components are ordered by row-major discovery and tiles within each
// by BFS visit order, so the result is deterministic for a given grid.
func Regions(g *Grid, passable func(Kind) bool) [][]Point {
	var regions [][]Point
	seen := mapset.New[Point]()

	g.ForEach(func(x, y int, k Kind) {
		start := Point{x, y}
		if seen.Has(start) || !passable(k) {
			return
		}

		var tiles []Point
		queue := []Point{start}
		seen.Put(start)
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			tiles = append(tiles, current)

			neighbors := []Point{
				{current.X, current.Y - 1},
				{current.X + 1, current.Y},
				{current.X, current.Y + 1},
				{current.X - 1, current.Y},
			}
			for _, n := range neighbors {
				if g.InBounds(n.X, n.Y) && !seen.Has(n) && passable(g.At(n.X, n.Y)) {
					seen.Put(n)
					queue = append(queue, n)
				}
			}
		}
		regions = append(regions, tiles)
	})

	return regions
}

// ConnectivityRatio returns the fraction of passable tiles that belong
// to the largest 4-connected component. A grid with no passable tiles
// has ratio 0.
func ConnectivityRatio(g *Grid, passable func(Kind) bool) float64 {
	regions := Regions(g, passable)
	total, largest := 0, 0
	for _, r := range regions {
		total += len(r)
		if len(r) > largest {
			largest = len(r)
		}
	}
	if total == 0 {
		return 0
	}
	return float64(largest) / float64(total)
}
