package terrain

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"deepfall/pkg/engine/grid"
)

const (
	noiseOctaves     = 4
	noisePersistence = 0.5
	noiseLacunarity  = 2.0
	noiseScale       = 0.08
	noiseThreshold   = -0.15
	clearingCount    = 3
)

// NoiseGenerator builds open outdoor terrain from thresholded
// multi-octave noise, with circular clearings carved in as gathering
// spots.
type NoiseGenerator struct{}

func (gen *NoiseGenerator) Name() string {
	return "noise"
}

func (gen *NoiseGenerator) Generate(width, height int, seed int64) *Layout {
	rng := rand.New(rand.NewSource(seed))
	noise := opensimplex.New(seed)
	g := grid.NewGrid(width, height, grid.Wall)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if octaveNoise(noise, float64(x), float64(y)) > noiseThreshold {
				g.Set(x, y, grid.Floor)
			}
		}
	}

	rooms := carveClearings(g, rng)
	reconnectFloor(g)

	l := &Layout{
		Grid:  g,
		Rooms: rooms,
	}
	assignRoles(l)
	g.SealBoundary()
	return l
}

// octaveNoise sums noise octaves with halving amplitude and doubling
// frequency, normalized back to roughly [-1, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64) float64 {
	total := 0.0
	amplitude := 1.0
	frequency := noiseScale
	maxValue := 0.0

	for i := 0; i < noiseOctaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= noisePersistence
		frequency *= noiseLacunarity
	}
	return total / maxValue
}

// carveClearings opens a few circular clearings and records them as
// pseudo-rooms so role assignment has anchors in open country.
func carveClearings(g *grid.Grid, rng *rand.Rand) []grid.Rect {
	var rooms []grid.Rect
	for i := 0; i < clearingCount; i++ {
		radius := 3 + rng.Intn(3)
		cx := radius + 2 + rng.Intn(maxOf(1, g.Width()-2*radius-4))
		cy := radius + 2 + rng.Intn(maxOf(1, g.Height()-2*radius-4))

		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy <= radius*radius {
					g.Set(cx+dx, cy+dy, grid.Floor)
				}
			}
		}
		rooms = append(rooms, grid.Rect{
			X: cx - radius, Y: cy - radius,
			W: 2*radius + 1, H: 2*radius + 1,
		})
	}
	return rooms
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
