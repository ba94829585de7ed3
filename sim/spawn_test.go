package sim

import "testing"

func TestInitialize(t *testing.T) {
	s, err := Initialize(50, 50, BoundaryClamp, testRng())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if got := s.Tissue.Count(TissueHealthy); got != InitialHealthyCells {
		t.Errorf("Expected %d healthy cells, got %d", InitialHealthyCells, got)
	}
	if got := s.Tissue.Count(TissueInfected); got != 0 {
		t.Errorf("Expected no infected cells, got %d", got)
	}
	if len(s.Bacteria) != 0 {
		t.Errorf("Expected no bacteria, got %d", len(s.Bacteria))
	}
	if len(s.Immune) != 3 {
		t.Fatalf("Expected 3 immune cells, got %d", len(s.Immune))
	}

	want := []struct {
		species Species
		pos     Coordinate
	}{
		{Macrophage, Coordinate{20, 20}},
		{TCell, Coordinate{30, 30}},
		{BCell, Coordinate{25, 25}},
	}
	for i, w := range want {
		cell := s.Immune[i]
		if cell.Species != w.species || cell.Pos != w.pos {
			t.Errorf("Immune %d: expected %v at %v, got %v at %v", i, w.species, w.pos, cell.Species, cell.Pos)
		}
	}
	census := s.Census()
	if census.Macrophages != 1 || census.TCells != 1 || census.BCells != 1 {
		t.Errorf("Expected one of each species, got %+v", census)
	}
}

func TestInitializeRelocatesSeedsOnSmallGrid(t *testing.T) {
	s, err := Initialize(5, 5, BoundaryClamp, testRng())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if len(s.Immune) != 3 {
		t.Fatalf("Expected 3 immune cells, got %d", len(s.Immune))
	}
	checkNoOverlap(t, 0, s)
}

func TestInitializeTinyGrid(t *testing.T) {
	s, err := Initialize(2, 2, BoundaryWrap, testRng())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := s.Tissue.Count(TissueHealthy); got != 4 {
		t.Errorf("Expected every cell healthy on a 2x2 grid, got %d", got)
	}
	checkNoOverlap(t, 0, s)
}

func TestInitializeRejectsBadDimensions(t *testing.T) {
	if _, err := Initialize(0, 10, BoundaryClamp, testRng()); err == nil {
		t.Error("Expected error for zero width")
	}
}

func TestResetClearsBacteria(t *testing.T) {
	rng := testRng()
	s, _ := Initialize(10, 10, BoundaryClamp, rng)
	s, _ = RequestSpawnBacterium(s, rng)

	reset, err := Reset(10, 10, BoundaryClamp, rng)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if len(reset.Bacteria) != 0 || len(reset.Immune) != 3 {
		t.Errorf("Expected 0 bacteria and 3 immune cells, got %d and %d", len(reset.Bacteria), len(reset.Immune))
	}
	if len(s.Bacteria) != 1 {
		t.Errorf("Reset touched the previous snapshot")
	}
}

func TestRequestSpawnBacterium(t *testing.T) {
	s := emptySnapshot(t, 4, 4).addImmune(TCell, 0, 0)

	next, added := RequestSpawnBacterium(s, testRng())
	if !added {
		t.Fatal("Expected a bacterium to be added")
	}
	if len(next.Bacteria) != 1 || len(s.Bacteria) != 0 {
		t.Errorf("Expected new snapshot with 1 bacterium and untouched input, got %d / %d", len(next.Bacteria), len(s.Bacteria))
	}
	if next.Bacteria[0].Pos == (Coordinate{0, 0}) {
		t.Error("Bacterium spawned on an occupied cell")
	}
	if next.Bacteria[0].Marked {
		t.Error("Spawned bacterium should be unmarked")
	}
}

func TestRequestSpawnBacteriumOnFullGrid(t *testing.T) {
	s := emptySnapshot(t, 1, 1).addImmune(BCell, 0, 0)

	next, added := RequestSpawnBacterium(s, testRng())
	if added {
		t.Error("Expected no bacterium on a full grid")
	}
	if next != s {
		t.Error("Expected the same snapshot back")
	}
}

func TestRequestSpawnImmuneCell(t *testing.T) {
	species := BCell
	s := emptySnapshot(t, 5, 5)

	// fixedRand: species draw 0, then x=1, y=2
	next, added := RequestSpawnImmuneCell(s, &fixedRand{}, &species)
	if !added {
		t.Fatal("Expected an immune cell to be added")
	}
	cell := next.Immune[0]
	if cell.Species != BCell || cell.Pos != (Coordinate{1, 2}) {
		t.Errorf("Expected bcell at (1,2), got %v at %v", cell.Species, cell.Pos)
	}

	// The same draw collides with the cell just placed
	again, added := RequestSpawnImmuneCell(next, &fixedRand{}, nil)
	if added {
		t.Error("Expected single-attempt spawn to give up on collision")
	}
	if len(again.Immune) != 1 {
		t.Errorf("Expected 1 immune cell, got %d", len(again.Immune))
	}
}

func TestManualSpawnMayExceedCap(t *testing.T) {
	s := emptySnapshot(t, 10, 10)
	rng := testRng()
	for len(s.Immune) <= MaxImmuneCells {
		s, _ = RequestSpawnImmuneCell(s, rng, nil)
	}
	if len(s.Immune) <= MaxImmuneCells {
		t.Errorf("Expected manual requests to pass the cap")
	}
}
