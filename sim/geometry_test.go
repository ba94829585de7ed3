package sim

import "testing"

func TestNewGeometry(t *testing.T) {
	if _, err := NewGeometry(0, 5, BoundaryClamp); err == nil {
		t.Error("Expected error for zero width")
	}
	if _, err := NewGeometry(5, -1, BoundaryClamp); err == nil {
		t.Error("Expected error for negative height")
	}
	if _, err := NewGeometry(5, 5, Boundary(9)); err == nil {
		t.Error("Expected error for unknown boundary")
	}
	g, err := NewGeometry(4, 3, BoundaryWrap)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if g.Area() != 12 {
		t.Errorf("Expected area 12, got %d", g.Area())
	}
}

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		in      string
		want    Boundary
		wantErr bool
	}{
		{"", BoundaryClamp, false},
		{"clamp", BoundaryClamp, false},
		{"wrap", BoundaryWrap, false},
		{"torus", BoundaryClamp, true},
	}
	for _, tt := range tests {
		got, err := ParseBoundary(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBoundary(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBoundary(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStep(t *testing.T) {
	clamp := Geometry{Width: 5, Height: 5, Boundary: BoundaryClamp}
	wrap := Geometry{Width: 5, Height: 5, Boundary: BoundaryWrap}

	tests := []struct {
		name string
		g    Geometry
		from Coordinate
		dir  Direction
		want Coordinate
	}{
		{"interior up", clamp, Coordinate{2, 2}, DirUp, Coordinate{2, 1}},
		{"interior right", clamp, Coordinate{2, 2}, DirRight, Coordinate{3, 2}},
		{"clamp top edge", clamp, Coordinate{2, 0}, DirUp, Coordinate{2, 0}},
		{"clamp left edge", clamp, Coordinate{0, 3}, DirLeft, Coordinate{0, 3}},
		{"wrap top edge", wrap, Coordinate{2, 0}, DirUp, Coordinate{2, 4}},
		{"wrap right edge", wrap, Coordinate{4, 1}, DirRight, Coordinate{0, 1}},
		{"hold", clamp, Coordinate{1, 1}, DirNone, Coordinate{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Step(tt.from, tt.dir); got != tt.want {
				t.Errorf("Step(%v, %v) = %v, want %v", tt.from, tt.dir, got, tt.want)
			}
		})
	}
}

func TestDirectionTo(t *testing.T) {
	g := Geometry{Width: 10, Height: 10}
	tests := []struct {
		name     string
		from, to Coordinate
		want     Direction
	}{
		{"right", Coordinate{1, 1}, Coordinate{5, 2}, DirRight},
		{"left", Coordinate{5, 1}, Coordinate{1, 2}, DirLeft},
		{"down", Coordinate{1, 1}, Coordinate{2, 6}, DirDown},
		{"up", Coordinate{1, 6}, Coordinate{2, 1}, DirUp},
		{"tie prefers horizontal", Coordinate{1, 1}, Coordinate{3, 3}, DirRight},
		{"tie prefers horizontal negative", Coordinate{3, 3}, Coordinate{1, 1}, DirLeft},
		{"already there", Coordinate{4, 4}, Coordinate{4, 4}, DirNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.DirectionTo(tt.from, tt.to); got != tt.want {
				t.Errorf("DirectionTo(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestDirectionToWrapsShortestWay(t *testing.T) {
	g := Geometry{Width: 10, Height: 10, Boundary: BoundaryWrap}
	if got := g.DirectionTo(Coordinate{0, 5}, Coordinate{9, 5}); got != DirLeft {
		t.Errorf("Expected LT across the seam, got %v", got)
	}
	if d := g.Distance(Coordinate{0, 0}, Coordinate{9, 9}); d != 2 {
		t.Errorf("Expected toroidal distance 2, got %d", d)
	}
}

func TestDirectionAway(t *testing.T) {
	g := Geometry{Width: 10, Height: 10}
	tests := []struct {
		name         string
		from, threat Coordinate
		want         Direction
	}{
		{"threat right", Coordinate{4, 4}, Coordinate{6, 4}, DirLeft},
		{"threat left", Coordinate{4, 4}, Coordinate{3, 4}, DirRight},
		{"threat below", Coordinate{4, 4}, Coordinate{4, 6}, DirUp},
		{"threat above", Coordinate{4, 4}, Coordinate{4, 3}, DirDown},
		{"diagonal tie is horizontal", Coordinate{4, 4}, Coordinate{5, 5}, DirLeft},
		{"co-located", Coordinate{4, 4}, Coordinate{4, 4}, DirRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.DirectionAway(tt.from, tt.threat); got != tt.want {
				t.Errorf("DirectionAway(%v, %v) = %v, want %v", tt.from, tt.threat, got, tt.want)
			}
		})
	}
}

func TestNeighbors(t *testing.T) {
	g := Geometry{Width: 3, Height: 3}
	got := g.Neighbors(Coordinate{1, 1})
	want := []Coordinate{{1, 0}, {1, 2}, {0, 1}, {2, 1}}
	if len(got) != len(want) {
		t.Fatalf("Expected %d neighbors, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbor %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	if corner := g.Neighbors(Coordinate{0, 0}); len(corner) != 2 {
		t.Errorf("Expected 2 clamped corner neighbors, got %d", len(corner))
	}

	wrap := Geometry{Width: 3, Height: 3, Boundary: BoundaryWrap}
	if corner := wrap.Neighbors(Coordinate{0, 0}); len(corner) != 4 {
		t.Errorf("Expected 4 wrapped corner neighbors, got %d", len(corner))
	}
}

func TestNearestKeepsFirstOnTie(t *testing.T) {
	g := Geometry{Width: 10, Height: 10}
	cands := []Coordinate{{5, 3}, {3, 5}, {9, 9}}
	got, ok := Nearest(g, Coordinate{3, 3}, cands)
	if !ok {
		t.Fatal("Expected a nearest candidate")
	}
	if got != (Coordinate{5, 3}) {
		t.Errorf("Expected first tied candidate (5,3), got %v", got)
	}
	if _, ok := Nearest(g, Coordinate{0, 0}, nil); ok {
		t.Error("Expected no candidate from empty list")
	}
}
