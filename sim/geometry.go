// Package sim contains the immune response tick engine. Every function in
// this package is pure with respect to its inputs: snapshots are never
// mutated in place and all randomness flows through an explicit Rand.
package sim

import "fmt"

// Coordinate represents a 2D cell on the grid
type Coordinate struct {
	X, Y int
}

// Boundary selects how moves past the grid edge are handled
type Boundary int

const (
	// BoundaryClamp keeps an agent on its current cell when a move would leave the grid
	BoundaryClamp Boundary = iota
	// BoundaryWrap connects opposite edges (toroidal grid)
	BoundaryWrap
)

// String returns the config name of the policy
func (b Boundary) String() string {
	switch b {
	case BoundaryClamp:
		return "clamp"
	case BoundaryWrap:
		return "wrap"
	default:
		return fmt.Sprintf("boundary(%d)", int(b))
	}
}

// ParseBoundary converts a config name into a Boundary
func ParseBoundary(name string) (Boundary, error) {
	switch name {
	case "", "clamp":
		return BoundaryClamp, nil
	case "wrap":
		return BoundaryWrap, nil
	default:
		return BoundaryClamp, fmt.Errorf("unknown boundary policy %q", name)
	}
}

// Direction is a single orthogonal step. DirNone means hold position.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions lists the four movement directions in scan order
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Offset returns the unit step for the direction; y grows downward
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// String converts a Direction to a short display code
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "UP"
	case DirDown:
		return "DW"
	case DirLeft:
		return "LT"
	case DirRight:
		return "RT"
	default:
		return "ST" // Stay
	}
}

// Geometry is the fixed rectangular coordinate space of a simulation
type Geometry struct {
	Width    int
	Height   int
	Boundary Boundary
}

// NewGeometry validates the dimensions and returns a geometry
func NewGeometry(width, height int, boundary Boundary) (Geometry, error) {
	if width <= 0 || height <= 0 {
		return Geometry{}, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	if boundary != BoundaryClamp && boundary != BoundaryWrap {
		return Geometry{}, fmt.Errorf("unsupported boundary policy %v", boundary)
	}
	return Geometry{Width: width, Height: height, Boundary: boundary}, nil
}

// Area returns the number of cells
func (g Geometry) Area() int {
	return g.Width * g.Height
}

// InBounds checks if c lies on the grid
func (g Geometry) InBounds(c Coordinate) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Index returns the row-major index of an in-bounds coordinate
func (g Geometry) Index(c Coordinate) int {
	return c.Y*g.Width + c.X
}

// Step applies d to c under the boundary policy
func (g Geometry) Step(c Coordinate, d Direction) Coordinate {
	dx, dy := d.Offset()
	next := Coordinate{X: c.X + dx, Y: c.Y + dy}
	if g.InBounds(next) {
		return next
	}
	if g.Boundary == BoundaryWrap {
		return Coordinate{X: mod(next.X, g.Width), Y: mod(next.Y, g.Height)}
	}
	return c
}

// Delta returns the signed displacement from a to b. Under wrap it is the
// shortest toroidal displacement.
func (g Geometry) Delta(a, b Coordinate) (dx, dy int) {
	dx = b.X - a.X
	dy = b.Y - a.Y
	if g.Boundary == BoundaryWrap {
		dx = shortest(dx, g.Width)
		dy = shortest(dy, g.Height)
	}
	return dx, dy
}

// Distance returns the Manhattan distance between a and b
func (g Geometry) Distance(a, b Coordinate) int {
	dx, dy := g.Delta(a, b)
	return abs(dx) + abs(dy)
}

// Neighbors returns the orthogonal neighbors of c in Up, Down, Left, Right
// order. Clamped grids omit off-grid cells.
func (g Geometry) Neighbors(c Coordinate) []Coordinate {
	out := make([]Coordinate, 0, 4)
	for _, d := range Directions {
		dx, dy := d.Offset()
		n := Coordinate{X: c.X + dx, Y: c.Y + dy}
		if !g.InBounds(n) {
			if g.Boundary != BoundaryWrap {
				continue
			}
			n = Coordinate{X: mod(n.X, g.Width), Y: mod(n.Y, g.Height)}
			if n == c {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

// DirectionTo resolves the step from one cell toward another. The axis with
// the larger displacement wins, horizontal on ties.
func (g Geometry) DirectionTo(from, to Coordinate) Direction {
	dx, dy := g.Delta(from, to)
	if dx == 0 && dy == 0 {
		return DirNone
	}
	if abs(dx) >= abs(dy) {
		if dx > 0 {
			return DirRight
		}
		return DirLeft
	}
	if dy > 0 {
		return DirDown
	}
	return DirUp
}

// DirectionAway resolves the step that moves directly away from threat.
func (g Geometry) DirectionAway(from, threat Coordinate) Direction {
	dx, dy := g.Delta(from, threat)
	if abs(dx) >= abs(dy) {
		if dx > 0 {
			return DirLeft
		}
		return DirRight
	}
	if dy > 0 {
		return DirUp
	}
	return DirDown
}

// RandomCoordinate draws a uniformly distributed cell
func (g Geometry) RandomCoordinate(rng Rand) Coordinate {
	x := rng.Intn(g.Width)
	y := rng.Intn(g.Height)
	return Coordinate{X: x, Y: y}
}

func shortest(d, size int) int {
	d = mod(d, size)
	if d > size/2 {
		d -= size
	}
	return d
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
