package sim

import "fmt"

// Species tags the immune cell variants
type Species int

const (
	Macrophage Species = iota
	TCell
	BCell
)

// AllSpecies lists the immune variants in spawn order
var AllSpecies = [3]Species{Macrophage, TCell, BCell}

// String returns the config and wire name of the species
func (s Species) String() string {
	switch s {
	case Macrophage:
		return "macrophage"
	case TCell:
		return "tcell"
	case BCell:
		return "bcell"
	default:
		return fmt.Sprintf("species(%d)", int(s))
	}
}

// ParseSpecies converts a wire name into a Species
func ParseSpecies(name string) (Species, error) {
	switch name {
	case "macrophage":
		return Macrophage, nil
	case "tcell", "t-cell":
		return TCell, nil
	case "bcell", "b-cell":
		return BCell, nil
	default:
		return 0, fmt.Errorf("unknown immune species %q", name)
	}
}

// ImmuneCell is a mobile immune agent
type ImmuneCell struct {
	ID      int
	Pos     Coordinate
	Species Species
	LastDir Direction // display only
}

// Bacterium is a mobile pathogen agent. Marked is never cleared once set.
type Bacterium struct {
	ID     int
	Pos    Coordinate
	Marked bool
}

// positionsOfImmune returns the cells held by immune cells
func positionsOfImmune(cells []ImmuneCell) map[Coordinate]bool {
	out := make(map[Coordinate]bool, len(cells))
	for _, c := range cells {
		out[c.Pos] = true
	}
	return out
}

// positionsOfBacteria returns the cells held by bacteria
func positionsOfBacteria(bacteria []Bacterium) map[Coordinate]bool {
	out := make(map[Coordinate]bool, len(bacteria))
	for _, b := range bacteria {
		out[b.Pos] = true
	}
	return out
}
