package sim

// TissueStatus is the state of one grid cell's tissue
type TissueStatus uint8

const (
	TissueEmpty TissueStatus = iota
	TissueHealthy
	TissueInfected
)

// String returns a lowercase name for the status
func (s TissueStatus) String() string {
	switch s {
	case TissueHealthy:
		return "healthy"
	case TissueInfected:
		return "infected"
	default:
		return "empty"
	}
}

// TissueGrid stores a status for every cell of a fixed-size grid
type TissueGrid struct {
	Width  int
	Height int
	Cells  []TissueStatus
}

// NewTissueGrid creates an all-empty grid
func NewTissueGrid(width, height int) *TissueGrid {
	return &TissueGrid{
		Width:  width,
		Height: height,
		Cells:  make([]TissueStatus, width*height),
	}
}

// At returns the status at c, Empty for off-grid coordinates
func (t *TissueGrid) At(c Coordinate) TissueStatus {
	if c.X < 0 || c.X >= t.Width || c.Y < 0 || c.Y >= t.Height {
		return TissueEmpty
	}
	return t.Cells[c.Y*t.Width+c.X]
}

// Set changes the status at c; off-grid coordinates are ignored
func (t *TissueGrid) Set(c Coordinate, s TissueStatus) {
	if c.X < 0 || c.X >= t.Width || c.Y < 0 || c.Y >= t.Height {
		return
	}
	t.Cells[c.Y*t.Width+c.X] = s
}

// Infect turns Healthy tissue at c into Infected and reports the change
func (t *TissueGrid) Infect(c Coordinate) bool {
	if t.At(c) != TissueHealthy {
		return false
	}
	t.Set(c, TissueInfected)
	return true
}

// Heal turns Infected tissue at c back into Healthy and reports the change
func (t *TissueGrid) Heal(c Coordinate) bool {
	if t.At(c) != TissueInfected {
		return false
	}
	t.Set(c, TissueHealthy)
	return true
}

// Clone returns a deep copy
func (t *TissueGrid) Clone() *TissueGrid {
	cells := make([]TissueStatus, len(t.Cells))
	copy(cells, t.Cells)
	return &TissueGrid{Width: t.Width, Height: t.Height, Cells: cells}
}

// Coordinates lists every cell with status s in row-major order
func (t *TissueGrid) Coordinates(s TissueStatus) []Coordinate {
	var out []Coordinate
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			if t.Cells[y*t.Width+x] == s {
				out = append(out, Coordinate{X: x, Y: y})
			}
		}
	}
	return out
}

// Count returns the number of cells with status s
func (t *TissueGrid) Count(s TissueStatus) int {
	n := 0
	for _, c := range t.Cells {
		if c == s {
			n++
		}
	}
	return n
}
