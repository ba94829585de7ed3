package sim

// ResolveMove applies dir to from, redrawing a random direction while the
// destination is blocked, for at most maxAttempts redraws. It returns the
// final cell, the direction actually taken and whether the agent moved.
// DirNone holds position without consuming randomness.
func ResolveMove(g Geometry, from Coordinate, dir Direction, blocked func(Coordinate) bool, rng Rand, maxAttempts int) (Coordinate, Direction, bool) {
	if dir == DirNone {
		return from, DirNone, false
	}
	next := g.Step(from, dir)
	for attempts := 0; blocked(next) && attempts < maxAttempts; attempts++ {
		dir = RandomDirection(rng)
		next = g.Step(from, dir)
	}
	if blocked(next) {
		return from, DirNone, false
	}
	return next, dir, next != from
}

// occupancy tracks same-species cells during one movement pass. Agents not
// yet processed hold their pre-move cell so a stalled agent can never end up
// sharing it.
type occupancy struct {
	pending map[Coordinate]int
	placed  map[Coordinate]bool
	extra   map[Coordinate]bool
}

func newOccupancy(pending []Coordinate, extra map[Coordinate]bool) *occupancy {
	o := &occupancy{
		pending: make(map[Coordinate]int, len(pending)),
		placed:  make(map[Coordinate]bool, len(pending)),
		extra:   extra,
	}
	for _, c := range pending {
		o.pending[c]++
	}
	return o
}

func (o *occupancy) release(c Coordinate) {
	if o.pending[c] <= 1 {
		delete(o.pending, c)
		return
	}
	o.pending[c]--
}

func (o *occupancy) blocked(c Coordinate) bool {
	return o.placed[c] || o.pending[c] > 0 || o.extra[c]
}

// MoveBacteria moves every bacterium in order. Pre-tick immune cells are
// obstacles alongside the bacteria themselves.
func MoveBacteria(w World, rng Rand) []Bacterium {
	occ := newOccupancy(bacteriumCoordinates(w.Bacteria, false), positionsOfImmune(w.Immune))
	moved := make([]Bacterium, len(w.Bacteria))
	for i, b := range w.Bacteria {
		occ.release(b.Pos)
		dir := BacteriumDirection(b, w, rng)
		pos, _, _ := ResolveMove(w.Geometry, b.Pos, dir, occ.blocked, rng, MaxMoveAttempts)
		occ.placed[pos] = true
		b.Pos = pos
		moved[i] = b
	}
	return moved
}

// MoveImmune moves every immune cell in order against the moved bacteria.
func MoveImmune(w World, rng Rand) []ImmuneCell {
	occ := newOccupancy(immuneCoordinates(w.Immune), nil)
	moved := make([]ImmuneCell, len(w.Immune))
	for i, cell := range w.Immune {
		occ.release(cell.Pos)
		dir := ImmuneDirection(cell, w, rng)
		pos, taken, ok := ResolveMove(w.Geometry, cell.Pos, dir, occ.blocked, rng, MaxMoveAttempts)
		occ.placed[pos] = true
		if ok {
			cell.Pos = pos
			cell.LastDir = taken
		}
		moved[i] = cell
	}
	return moved
}
