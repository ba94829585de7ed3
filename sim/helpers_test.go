package sim

import (
	"math/rand"
	"testing"
)

// fixedRand returns the same Float64 every time and cycles Intn results, so
// tests can force every probabilistic rule to fire or not fire.
type fixedRand struct {
	float float64
	next  int
}

func (r *fixedRand) Intn(n int) int {
	v := r.next % n
	r.next++
	return v
}

func (r *fixedRand) Float64() float64 {
	return r.float
}

// never forces every chance roll to fail
func never() *fixedRand { return &fixedRand{float: 0.999} }

// always forces every chance roll to succeed
func always() *fixedRand { return &fixedRand{float: 0} }

func testRng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// emptySnapshot builds a snapshot with no tissue and no agents
func emptySnapshot(t *testing.T, width, height int) *Snapshot {
	t.Helper()
	g, err := NewGeometry(width, height, BoundaryClamp)
	if err != nil {
		t.Fatalf("NewGeometry(%d, %d): %v", width, height, err)
	}
	return &Snapshot{
		Geometry: g,
		Tissue:   NewTissueGrid(width, height),
		NextID:   1,
	}
}

func (s *Snapshot) addImmune(species Species, x, y int) *Snapshot {
	s.Immune = append(s.Immune, ImmuneCell{ID: s.nextID(), Pos: Coordinate{X: x, Y: y}, Species: species, LastDir: DirUp})
	return s
}

func (s *Snapshot) addBacterium(x, y int, marked bool) *Snapshot {
	s.Bacteria = append(s.Bacteria, Bacterium{ID: s.nextID(), Pos: Coordinate{X: x, Y: y}, Marked: marked})
	return s
}
