package sim

import "math"

// ControlPopulation runs bacterial division, macrophage recruitment and
// spontaneous seeding on the post-interaction state in next.
func ControlPopulation(next *Snapshot, rng Rand, r *Report) {
	occupied := occupiedCells(next)
	divide(next, occupied, rng, r)
	recruit(next, occupied, rng, r)
	seed(next, occupied, rng, r)
}

// divide lets unguarded bacteria on infected tissue split into a free
// neighboring cell
func divide(next *Snapshot, occupied map[Coordinate]bool, rng Rand, r *Report) {
	parents := len(next.Bacteria)
	for i := 0; i < parents; i++ {
		parent := next.Bacteria[i]
		if next.Tissue.At(parent.Pos) != TissueInfected {
			continue
		}
		if immuneWithin(next, parent.Pos, DivisionGuardRange) {
			continue
		}
		if !chance(rng, DivisionChance) {
			continue
		}
		var free []Coordinate
		for _, n := range next.Geometry.Neighbors(parent.Pos) {
			if !occupied[n] {
				free = append(free, n)
			}
		}
		if len(free) == 0 {
			continue
		}
		pos := free[rng.Intn(len(free))]
		child := Bacterium{ID: next.nextID(), Pos: pos}
		next.Bacteria = append(next.Bacteria, child)
		occupied[pos] = true
		r.add(EventDivided, pos, child.ID)
	}
}

// recruit may add one macrophage when bacteria exceed RecruitThreshold
func recruit(next *Snapshot, occupied map[Coordinate]bool, rng Rand, r *Report) {
	count := len(next.Bacteria)
	if count <= RecruitThreshold || len(next.Immune) >= MaxImmuneCells {
		return
	}
	excess := count - RecruitThreshold
	p := math.Min(RecruitChancePerExcess*float64(excess), MaxRecruitChance)
	if !chance(rng, p) {
		return
	}
	cell := ImmuneCell{Species: Macrophage, LastDir: RandomDirection(rng)}
	pos, ok := freeCoordinate(next.Geometry, occupied, rng, SpawnAttempts)
	if !ok {
		return
	}
	cell.ID = next.nextID()
	cell.Pos = pos
	next.Immune = append(next.Immune, cell)
	occupied[pos] = true
	r.add(EventRecruited, pos, cell.ID)
}

// seed may drop one bacterium on a single random free cell
func seed(next *Snapshot, occupied map[Coordinate]bool, rng Rand, r *Report) {
	if !chance(rng, SeedChance) {
		return
	}
	pos, ok := freeCoordinate(next.Geometry, occupied, rng, 1)
	if !ok {
		return
	}
	b := Bacterium{ID: next.nextID(), Pos: pos}
	next.Bacteria = append(next.Bacteria, b)
	occupied[pos] = true
	r.add(EventSeeded, pos, b.ID)
}

func immuneWithin(s *Snapshot, c Coordinate, radius int) bool {
	for _, cell := range s.Immune {
		if s.Geometry.Distance(cell.Pos, c) <= radius {
			return true
		}
	}
	return false
}

// freeCoordinate draws up to attempts uniform cells and returns the first
// one not in occupied
func freeCoordinate(g Geometry, occupied map[Coordinate]bool, rng Rand, attempts int) (Coordinate, bool) {
	for i := 0; i < attempts; i++ {
		c := g.RandomCoordinate(rng)
		if !occupied[c] {
			return c, true
		}
	}
	return Coordinate{}, false
}
