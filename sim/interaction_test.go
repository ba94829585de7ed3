package sim

import "testing"

func TestEatReachesOwnAndAdjacentCells(t *testing.T) {
	s := emptySnapshot(t, 7, 7).
		addImmune(Macrophage, 3, 3).
		addBacterium(3, 3, false). // same cell
		addBacterium(4, 3, false). // adjacent
		addBacterium(4, 4, false). // diagonal, survives
		addBacterium(3, 5, false)  // two away, survives
	var r Report

	ResolveInteractions(s, nil, &r)

	if len(s.Bacteria) != 2 {
		t.Fatalf("Expected 2 survivors, got %d: %+v", len(s.Bacteria), s.Bacteria)
	}
	if r.Count(EventEaten) != 2 {
		t.Errorf("Expected 2 eaten events, got %d", r.Count(EventEaten))
	}
}

func TestMarkIsIdempotent(t *testing.T) {
	s := emptySnapshot(t, 10, 10).
		addImmune(BCell, 2, 2).
		addImmune(BCell, 3, 2).
		addBacterium(2, 4, false).
		addBacterium(5, 5, true).
		addBacterium(9, 9, false)
	var r Report

	ResolveInteractions(s, nil, &r)

	want := []bool{true, true, false}
	for i, b := range s.Bacteria {
		if b.Marked != want[i] {
			t.Errorf("Bacterium %d at %v: marked=%v, want %v", b.ID, b.Pos, b.Marked, want[i])
		}
	}
	if r.Count(EventMarked) != 1 {
		t.Errorf("Expected 1 newly marked event, got %d", r.Count(EventMarked))
	}
}

func TestInfectOnlyHealthyTissue(t *testing.T) {
	s := emptySnapshot(t, 5, 5).
		addBacterium(0, 0, false).
		addBacterium(1, 0, false).
		addBacterium(2, 0, false)
	s.Tissue.Set(Coordinate{0, 0}, TissueHealthy)
	s.Tissue.Set(Coordinate{1, 0}, TissueInfected)
	var r Report

	ResolveInteractions(s, nil, &r)

	if got := s.Tissue.At(Coordinate{0, 0}); got != TissueInfected {
		t.Errorf("Expected (0,0) infected, got %v", got)
	}
	if got := s.Tissue.At(Coordinate{2, 0}); got != TissueEmpty {
		t.Errorf("Expected (2,0) to stay empty, got %v", got)
	}
	if r.Count(EventInfected) != 1 {
		t.Errorf("Expected 1 infected event, got %d", r.Count(EventInfected))
	}
}

func TestEatenBacteriaDoNotInfect(t *testing.T) {
	s := emptySnapshot(t, 5, 5).addImmune(Macrophage, 2, 2).addBacterium(2, 1, false)
	s.Tissue.Set(Coordinate{2, 1}, TissueHealthy)
	var r Report

	ResolveInteractions(s, nil, &r)

	if got := s.Tissue.At(Coordinate{2, 1}); got != TissueHealthy {
		t.Errorf("Expected (2,1) to stay healthy after eating, got %v", got)
	}
}

func TestHealRunsBeforeInfect(t *testing.T) {
	// The bacterium on the cured cell is cleared, so the cell stays healthy
	s := emptySnapshot(t, 5, 5).addImmune(TCell, 1, 1).addBacterium(1, 1, false)
	s.Tissue.Set(Coordinate{1, 1}, TissueInfected)
	var r Report

	ResolveInteractions(s, nil, &r)

	if got := s.Tissue.At(Coordinate{1, 1}); got != TissueHealthy {
		t.Errorf("Expected (1,1) healthy, got %v", got)
	}
	if len(s.Bacteria) != 0 {
		t.Errorf("Expected bacterium to be cleared, got %+v", s.Bacteria)
	}
}
