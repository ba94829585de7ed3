package sim

// seedCell is a fixed starting position for one immune species
type seedCell struct {
	pos     Coordinate
	species Species
	dir     Direction
}

var seedCells = []seedCell{
	{pos: Coordinate{X: 20, Y: 20}, species: Macrophage, dir: DirUp},
	{pos: Coordinate{X: 30, Y: 30}, species: TCell, dir: DirRight},
	{pos: Coordinate{X: 25, Y: 25}, species: BCell, dir: DirDown},
}

// Initialize creates the starting snapshot: InitialHealthyCells distinct
// healthy tissue cells and one immune cell of each species.
func Initialize(width, height int, boundary Boundary, rng Rand) (*Snapshot, error) {
	g, err := NewGeometry(width, height, boundary)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		Geometry: g,
		Tissue:   NewTissueGrid(width, height),
		NextID:   1,
	}

	healthy := InitialHealthyCells
	if healthy > g.Area() {
		healthy = g.Area()
	}
	for placed := 0; placed < healthy; {
		c := g.RandomCoordinate(rng)
		if s.Tissue.At(c) == TissueHealthy {
			continue
		}
		s.Tissue.Set(c, TissueHealthy)
		placed++
	}

	taken := make(map[Coordinate]bool, len(seedCells))
	for _, seed := range seedCells {
		if len(taken) == g.Area() {
			break
		}
		pos := seed.pos
		if !g.InBounds(pos) || taken[pos] {
			pos = relocate(g, taken, rng)
		}
		taken[pos] = true
		s.Immune = append(s.Immune, ImmuneCell{
			ID:      s.nextID(),
			Pos:     pos,
			Species: seed.species,
			LastDir: seed.dir,
		})
	}
	return s, nil
}

// Reset is Initialize under a new name: all bacteria are gone and the seed
// immune cells are back.
func Reset(width, height int, boundary Boundary, rng Rand) (*Snapshot, error) {
	return Initialize(width, height, boundary, rng)
}

// relocate re-samples a free seed position; it falls back to a row-major
// scan so initialization terminates on crowded grids
func relocate(g Geometry, taken map[Coordinate]bool, rng Rand) Coordinate {
	if c, ok := freeCoordinate(g, taken, rng, g.Area()*4); ok {
		return c
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Coordinate{X: x, Y: y}
			if !taken[c] {
				return c
			}
		}
	}
	return Coordinate{}
}

// RequestSpawnBacterium returns a snapshot with one more unmarked bacterium
// on a cell free of any agent. If none is found within SpawnAttempts draws s
// itself is returned and added is false.
func RequestSpawnBacterium(s *Snapshot, rng Rand) (next *Snapshot, added bool) {
	pos, ok := freeCoordinate(s.Geometry, occupiedCells(s), rng, SpawnAttempts)
	if !ok {
		return s, false
	}
	next = s.Clone()
	next.Bacteria = append(next.Bacteria, Bacterium{ID: next.nextID(), Pos: pos})
	return next, true
}

// RequestSpawnImmuneCell returns a snapshot with one more immune cell of the
// given species, or a uniformly chosen one when species is nil. A single
// position is drawn; on collision s itself is returned and added is false.
func RequestSpawnImmuneCell(s *Snapshot, rng Rand, species *Species) (next *Snapshot, added bool) {
	chosen := AllSpecies[rng.Intn(len(AllSpecies))]
	if species != nil {
		chosen = *species
	}
	pos, ok := freeCoordinate(s.Geometry, occupiedCells(s), rng, 1)
	if !ok {
		return s, false
	}
	next = s.Clone()
	next.Immune = append(next.Immune, ImmuneCell{
		ID:      next.nextID(),
		Pos:     pos,
		Species: chosen,
		LastDir: RandomDirection(rng),
	})
	return next, true
}

func occupiedCells(s *Snapshot) map[Coordinate]bool {
	occupied := positionsOfImmune(s.Immune)
	for _, b := range s.Bacteria {
		occupied[b.Pos] = true
	}
	return occupied
}
