package sim

// Rule constants
const (
	FleeRange              = 2
	MarkRange              = 3
	MaxMoveAttempts        = 4
	DivisionChance         = 0.05
	DivisionGuardRange     = 2
	RecruitThreshold       = 5
	MaxImmuneCells         = 15
	RecruitChancePerExcess = 0.05
	MaxRecruitChance       = 0.5
	SeedChance             = 0.02
	SpawnAttempts          = 100
	InitialHealthyCells    = 10
)

// Snapshot is the complete world state at a tick boundary. Functions in
// this package treat a Snapshot as immutable and return new ones.
type Snapshot struct {
	Geometry Geometry
	Tick     int
	Tissue   *TissueGrid
	Immune   []ImmuneCell
	Bacteria []Bacterium
	NextID   int
}

// Clone returns a deep copy
func (s *Snapshot) Clone() *Snapshot {
	immune := make([]ImmuneCell, len(s.Immune))
	copy(immune, s.Immune)
	bacteria := make([]Bacterium, len(s.Bacteria))
	copy(bacteria, s.Bacteria)
	return &Snapshot{
		Geometry: s.Geometry,
		Tick:     s.Tick,
		Tissue:   s.Tissue.Clone(),
		Immune:   immune,
		Bacteria: bacteria,
		NextID:   s.NextID,
	}
}

func (s *Snapshot) nextID() int {
	id := s.NextID
	s.NextID++
	return id
}

// Census summarizes population and tissue counts
type Census struct {
	Bacteria       int
	MarkedBacteria int
	Immune         int
	Macrophages    int
	TCells         int
	BCells         int
	Healthy        int
	Infected       int
}

// Census counts agents and tissue in the snapshot
func (s *Snapshot) Census() Census {
	c := Census{
		Bacteria: len(s.Bacteria),
		Immune:   len(s.Immune),
		Healthy:  s.Tissue.Count(TissueHealthy),
		Infected: s.Tissue.Count(TissueInfected),
	}
	for _, b := range s.Bacteria {
		if b.Marked {
			c.MarkedBacteria++
		}
	}
	for _, cell := range s.Immune {
		switch cell.Species {
		case Macrophage:
			c.Macrophages++
		case TCell:
			c.TCells++
		case BCell:
			c.BCells++
		}
	}
	return c
}
