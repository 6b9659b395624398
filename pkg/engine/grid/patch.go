package grid

// Patch records the original value of every cell a mutation touches,
// so a failed speculative edit can be undone in time proportional to
// the number of changed cells rather than the grid size.
type Patch struct {
	grid  *Grid
	saved map[Point]Kind
}

// BeginPatch starts recording mutations against the grid.
func (g *Grid) BeginPatch() *Patch {
	return &Patch{grid: g, saved: make(map[Point]Kind)}
}

// Set writes a tile through the patch, remembering the first value
// seen at each position.
func (p *Patch) Set(x, y int, k Kind) {
	if !p.grid.InBounds(x, y) {
		return
	}
	pos := Point{x, y}
	if _, ok := p.saved[pos]; !ok {
		p.saved[pos] = p.grid.At(x, y)
	}
	p.grid.Set(x, y, k)
}

// Touched returns the number of distinct cells the patch has written.
func (p *Patch) Touched() int {
	return len(p.saved)
}

// Revert restores every touched cell to its pre-patch value.
func (p *Patch) Revert() {
	for pos, k := range p.saved {
		p.grid.Set(pos.X, pos.Y, k)
	}
	p.saved = make(map[Point]Kind)
}

// TryCommit applies mutate through a patch and keeps the result only
// if accept returns true, otherwise the touched cells are restored.
// Returns whether the mutation was kept.
func TryCommit(g *Grid, mutate func(p *Patch), accept func() bool) bool {
	patch := g.BeginPatch()
	mutate(patch)
	if accept() {
		return true
	}
	patch.Revert()
	return false
}
