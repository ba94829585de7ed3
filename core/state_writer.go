package core

import (
	"fmt"
	"io"
	"log"
	"time"

	"immunesim/sim"
)

// Grid dump symbols. Agents are drawn over tissue.
const (
	symbolEmpty      = '.'
	symbolHealthy    = 'o'
	symbolInfected   = 'x'
	symbolBacterium  = 'b'
	symbolMarked     = 'B'
	symbolMacrophage = 'M'
	symbolTCell      = 'T'
	symbolBCell      = 'P' // plasma
)

// WriteGrid writes a text rendering of s to w, one row per line with y
// growing downward, followed by the population summary.
func WriteGrid(w io.Writer, s *sim.Snapshot) error {
	g := s.Geometry
	rows := make([][]byte, g.Height)
	for y := range rows {
		rows[y] = make([]byte, g.Width)
		for x := range rows[y] {
			switch s.Tissue.At(sim.Coordinate{X: x, Y: y}) {
			case sim.TissueHealthy:
				rows[y][x] = symbolHealthy
			case sim.TissueInfected:
				rows[y][x] = symbolInfected
			default:
				rows[y][x] = symbolEmpty
			}
		}
	}
	for _, b := range s.Bacteria {
		rows[b.Pos.Y][b.Pos.X] = symbolBacterium
		if b.Marked {
			rows[b.Pos.Y][b.Pos.X] = symbolMarked
		}
	}
	for _, cell := range s.Immune {
		rows[cell.Pos.Y][cell.Pos.X] = speciesSymbol(cell.Species)
	}

	if _, err := fmt.Fprintf(w, "Tick %d - Current Grid State:\n", s.Tick); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s\n", row); err != nil {
			return err
		}
	}

	c := s.Census()
	_, err := fmt.Fprintf(w, "\nBacteria: %d (%d marked)\nImmune cells: %d (macrophages %d, t-cells %d, b-cells %d)\nTissue: %d healthy, %d infected\n",
		c.Bacteria, c.MarkedBacteria, c.Immune, c.Macrophages, c.TCells, c.BCells, c.Healthy, c.Infected)
	return err
}

func speciesSymbol(sp sim.Species) byte {
	switch sp {
	case sim.Macrophage:
		return symbolMacrophage
	case sim.TCell:
		return symbolTCell
	default:
		return symbolBCell
	}
}

// printState rewrites the output file with the current snapshot. The caller holds mu.
func (s *SimulationCore) printState() {
	if _, err := s.outputFile.Seek(0, 0); err != nil {
		log.Printf("Error seeking in output file: %v", err)
		return
	}
	if err := s.outputFile.Truncate(0); err != nil {
		log.Printf("Error truncating output file: %v", err)
		return
	}
	if _, err := fmt.Fprintf(s.outputFile, "Written: %s\n", time.Now().Format(time.RFC3339)); err != nil {
		log.Printf("Error writing header: %v", err)
		return
	}
	if err := WriteGrid(s.outputFile, s.snapshot); err != nil {
		log.Printf("Error writing grid: %v", err)
		return
	}
	if err := s.outputFile.Sync(); err != nil {
		log.Printf("Error syncing output file: %v", err)
	}
}
