package sim

// ResolveInteractions applies eating, healing, marking and infection in that
// order to the post-movement state in next, recording events in r. prior
// holds the bacteria as they stood before movement; it may be nil.
func ResolveInteractions(next *Snapshot, prior []Bacterium, r *Report) {
	eat(next, r)
	heal(next, prior, r)
	mark(next, r)
	infect(next, r)
}

// eat removes every bacterium on or orthogonally adjacent to a macrophage
func eat(next *Snapshot, r *Report) {
	reach := make(map[Coordinate]bool)
	for _, cell := range next.Immune {
		if cell.Species != Macrophage {
			continue
		}
		reach[cell.Pos] = true
		for _, n := range next.Geometry.Neighbors(cell.Pos) {
			reach[n] = true
		}
	}
	if len(reach) == 0 {
		return
	}
	survivors := next.Bacteria[:0]
	for _, b := range next.Bacteria {
		if reach[b.Pos] {
			r.add(EventEaten, b.Pos, b.ID)
			continue
		}
		survivors = append(survivors, b)
	}
	next.Bacteria = survivors
}

// heal cures infected tissue under T-cells and clears bacteria standing on
// the cured cell or that stood there before moving this tick
func heal(next *Snapshot, prior []Bacterium, r *Report) {
	cured := make(map[Coordinate]bool)
	for _, cell := range next.Immune {
		if cell.Species != TCell {
			continue
		}
		if next.Tissue.Heal(cell.Pos) {
			cured[cell.Pos] = true
			r.add(EventHealed, cell.Pos, cell.ID)
		}
	}
	if len(cured) == 0 {
		return
	}
	started := make(map[int]Coordinate, len(prior))
	for _, b := range prior {
		started[b.ID] = b.Pos
	}
	survivors := next.Bacteria[:0]
	for _, b := range next.Bacteria {
		from, known := started[b.ID]
		if cured[b.Pos] || (known && cured[from]) {
			r.add(EventCleared, b.Pos, b.ID)
			continue
		}
		survivors = append(survivors, b)
	}
	next.Bacteria = survivors
}

// mark flags every bacterium within MarkRange of a B-cell
func mark(next *Snapshot, r *Report) {
	for _, cell := range next.Immune {
		if cell.Species != BCell {
			continue
		}
		for i := range next.Bacteria {
			b := &next.Bacteria[i]
			if next.Geometry.Distance(cell.Pos, b.Pos) > MarkRange {
				continue
			}
			if !b.Marked {
				b.Marked = true
				r.add(EventMarked, b.Pos, b.ID)
			}
		}
	}
}

// infect turns healthy tissue under a bacterium into infected tissue
func infect(next *Snapshot, r *Report) {
	for _, b := range next.Bacteria {
		if next.Tissue.Infect(b.Pos) {
			r.add(EventInfected, b.Pos, b.ID)
		}
	}
}
