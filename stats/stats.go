// Package stats records per-tick population samples and exports them as
// CSV or a PNG population chart.
package stats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"immunesim/sim"
)

// ErrNotEnoughSamples is returned when a chart needs more data than was recorded
var ErrNotEnoughSamples = errors.New("not enough samples to render a chart")

// Sample is the population census at one tick plus the events that produced it
type Sample struct {
	Tick      int
	Census    sim.Census
	Eaten     int
	Healed    int
	Infected  int
	Divided   int
	Recruited int
	Seeded    int
}

// Recorder accumulates samples in tick order
type Recorder struct {
	samples []Sample
}

// Record appends the census of s and the event counts of r
func (rec *Recorder) Record(s *sim.Snapshot, r sim.Report) {
	rec.samples = append(rec.samples, Sample{
		Tick:      s.Tick,
		Census:    s.Census(),
		Eaten:     r.Count(sim.EventEaten),
		Healed:    r.Count(sim.EventHealed),
		Infected:  r.Count(sim.EventInfected),
		Divided:   r.Count(sim.EventDivided),
		Recruited: r.Count(sim.EventRecruited),
		Seeded:    r.Count(sim.EventSeeded),
	})
}

// Samples returns the recorded samples
func (rec *Recorder) Samples() []Sample {
	return rec.samples
}

var csvHeader = []string{
	"tick", "bacteria", "marked_bacteria", "immune", "macrophages", "tcells", "bcells",
	"healthy", "infected", "eaten", "healed", "newly_infected", "divided", "recruited", "seeded",
}

// WriteCSV writes a header row followed by one row per sample
func (rec *Recorder) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, s := range rec.samples {
		c := s.Census
		row := []int{
			s.Tick, c.Bacteria, c.MarkedBacteria, c.Immune, c.Macrophages, c.TCells, c.BCells,
			c.Healthy, c.Infected, s.Eaten, s.Healed, s.Infected, s.Divided, s.Recruited, s.Seeded,
		}
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = strconv.Itoa(v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing csv row for tick %d: %w", s.Tick, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// RenderChart draws bacteria, immune and tissue curves over time as a PNG
func (rec *Recorder) RenderChart(w io.Writer, width, height int) error {
	if len(rec.samples) < 2 {
		return ErrNotEnoughSamples
	}

	n := len(rec.samples)
	ticks := make([]float64, n)
	bacteria := make([]float64, n)
	immune := make([]float64, n)
	healthy := make([]float64, n)
	infected := make([]float64, n)
	yMax := 1.0
	for i, s := range rec.samples {
		ticks[i] = float64(s.Tick)
		bacteria[i] = float64(s.Census.Bacteria)
		immune[i] = float64(s.Census.Immune)
		healthy[i] = float64(s.Census.Healthy)
		infected[i] = float64(s.Census.Infected)
		yMax = max(yMax, bacteria[i], immune[i], healthy[i], infected[i])
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Tick",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: ticks[0], Max: ticks[n-1]},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "Count",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Bacteria",
				XValues: ticks,
				YValues: bacteria,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "Immune cells",
				XValues: ticks,
				YValues: immune,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "Healthy tissue",
				XValues: ticks,
				YValues: healthy,
				Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "Infected tissue",
				XValues: ticks,
				YValues: infected,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 255, G: 165, B: 0, A: 255}, StrokeWidth: 2.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
