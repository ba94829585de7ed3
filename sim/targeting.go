package sim

// World is the read-only view targeting rules observe. Bacteria target
// against the pre-tick immune cells; immune cells target against the
// already-moved bacteria.
type World struct {
	Geometry Geometry
	Tissue   *TissueGrid
	Immune   []ImmuneCell
	Bacteria []Bacterium
}

// Nearest returns the first candidate at minimal distance from c
func Nearest(g Geometry, c Coordinate, candidates []Coordinate) (Coordinate, bool) {
	if len(candidates) == 0 {
		return Coordinate{}, false
	}
	best := candidates[0]
	bestDist := g.Distance(c, best)
	for _, cand := range candidates[1:] {
		if d := g.Distance(c, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best, true
}

// BacteriumDirection flees a nearby immune cell, otherwise heads for the
// nearest healthy tissue, otherwise wanders.
func BacteriumDirection(b Bacterium, w World, rng Rand) Direction {
	if threat, ok := Nearest(w.Geometry, b.Pos, immuneCoordinates(w.Immune)); ok {
		if w.Geometry.Distance(b.Pos, threat) <= FleeRange {
			return w.Geometry.DirectionAway(b.Pos, threat)
		}
	}
	if target, ok := Nearest(w.Geometry, b.Pos, w.Tissue.Coordinates(TissueHealthy)); ok {
		return w.Geometry.DirectionTo(b.Pos, target)
	}
	return RandomDirection(rng)
}

// ImmuneDirection dispatches to the species rule
func ImmuneDirection(cell ImmuneCell, w World, rng Rand) Direction {
	var (
		target Coordinate
		ok     bool
	)
	switch cell.Species {
	case Macrophage:
		target, ok = macrophageTarget(cell, w)
	case TCell:
		target, ok = Nearest(w.Geometry, cell.Pos, w.Tissue.Coordinates(TissueInfected))
	case BCell:
		target, ok = Nearest(w.Geometry, cell.Pos, bacteriumCoordinates(w.Bacteria, false))
	}
	if !ok {
		return RandomDirection(rng)
	}
	return w.Geometry.DirectionTo(cell.Pos, target)
}

// macrophageTarget prefers an adjacent bacterium (scan Up, Down, Left,
// Right), then the nearest marked one, then the nearest of any kind.
func macrophageTarget(cell ImmuneCell, w World) (Coordinate, bool) {
	occupied := positionsOfBacteria(w.Bacteria)
	for _, n := range w.Geometry.Neighbors(cell.Pos) {
		if occupied[n] {
			return n, true
		}
	}
	if target, ok := Nearest(w.Geometry, cell.Pos, bacteriumCoordinates(w.Bacteria, true)); ok {
		return target, true
	}
	return Nearest(w.Geometry, cell.Pos, bacteriumCoordinates(w.Bacteria, false))
}

func immuneCoordinates(cells []ImmuneCell) []Coordinate {
	out := make([]Coordinate, len(cells))
	for i, c := range cells {
		out[i] = c.Pos
	}
	return out
}

func bacteriumCoordinates(bacteria []Bacterium, markedOnly bool) []Coordinate {
	out := make([]Coordinate, 0, len(bacteria))
	for _, b := range bacteria {
		if markedOnly && !b.Marked {
			continue
		}
		out = append(out, b.Pos)
	}
	return out
}
