package grid

// Rect is an axis-aligned tile rectangle. W and H are tile counts, so
// the rectangle covers [X, X+W) × [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

// Contains checks if the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the integer center of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Intersects reports whether the two rectangles share at least one tile.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.W && other.X < r.X+r.W &&
		r.Y < other.Y+other.H && other.Y < r.Y+r.H
}

// Expand grows the rectangle by n tiles on every side.
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, W: r.W + 2*n, H: r.H + 2*n}
}

// Area returns the number of tiles the rectangle covers.
func (r Rect) Area() int {
	return r.W * r.H
}

// ForEach iterates over every tile coordinate inside the rectangle.
func (r Rect) ForEach(fn func(x, y int)) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			fn(x, y)
		}
	}
}

// Clamp shrinks the rectangle to fit inside the grid's interior,
// keeping the one-tile boundary ring untouched. The result may be
// empty; check W/H before use.
func (r Rect) Clamp(g *Grid) Rect {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W, r.Y+r.H
	if x0 < 1 {
		x0 = 1
	}
	if y0 < 1 {
		y0 = 1
	}
	if x1 > g.Width()-1 {
		x1 = g.Width() - 1
	}
	if y1 > g.Height()-1 {
		y1 = g.Height() - 1
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
