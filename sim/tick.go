package sim

// Tick computes the next snapshot from s. s is not modified. The phases run
// in a fixed order: bacteria move, immune cells move, interactions resolve,
// then population control.
func Tick(s *Snapshot, rng Rand) (*Snapshot, Report) {
	next := s.Clone()
	next.Tick = s.Tick + 1
	report := Report{Tick: next.Tick}

	pre := World{
		Geometry: s.Geometry,
		Tissue:   s.Tissue,
		Immune:   s.Immune,
		Bacteria: s.Bacteria,
	}
	next.Bacteria = MoveBacteria(pre, rng)

	post := World{
		Geometry: s.Geometry,
		Tissue:   s.Tissue,
		Immune:   s.Immune,
		Bacteria: next.Bacteria,
	}
	next.Immune = MoveImmune(post, rng)

	ResolveInteractions(next, s.Bacteria, &report)
	ControlPopulation(next, rng, &report)

	return next, report
}
