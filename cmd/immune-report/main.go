// Command immune-report runs the simulation headless for a fixed number of
// ticks and writes the population history as CSV and a PNG chart.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"immunesim/config"
	"immunesim/core"
	"immunesim/sim"
	"immunesim/stats"
)

// reportOptions configures one batch run
type reportOptions struct {
	Config    *config.Config
	Ticks     int
	Bacteria  int // bacteria spawned before the first tick
	CSVPath   string
	ChartPath string
	GridPath  string
}

// run executes the batch and writes a summary to out
func run(opts reportOptions, out io.Writer) error {
	cfg := opts.Config
	boundary, err := cfg.BoundaryPolicy()
	if err != nil {
		return err
	}

	simCore, err := core.NewSimulationCore(core.Options{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Boundary: boundary,
		TickRate: cfg.TickRate(),
	}, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}
	defer simCore.Stop()

	for i := 0; i < opts.Bacteria; i++ {
		simCore.SpawnBacterium()
	}

	var rec stats.Recorder
	rec.Record(simCore.Snapshot(), sim.Report{})
	start := time.Now()
	for i := 0; i < opts.Ticks; i++ {
		report := simCore.Step()
		rec.Record(simCore.Snapshot(), report)
	}
	log.Printf("Ran %d ticks in %v", opts.Ticks, time.Since(start))

	if opts.CSVPath != "" {
		if err := writeFile(opts.CSVPath, rec.WriteCSV); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		log.Printf("Wrote %d samples to %s", len(rec.Samples()), opts.CSVPath)
	}
	if opts.ChartPath != "" && len(rec.Samples()) < 2 {
		log.Printf("Skipping chart: %d ticks is too few to plot", opts.Ticks)
	} else if opts.ChartPath != "" {
		err := writeFile(opts.ChartPath, func(w io.Writer) error {
			return rec.RenderChart(w, 1024, 512)
		})
		if err != nil {
			return fmt.Errorf("writing chart: %w", err)
		}
		log.Printf("Wrote population chart to %s", opts.ChartPath)
	}
	if opts.GridPath != "" {
		err := writeFile(opts.GridPath, func(w io.Writer) error {
			return core.WriteGrid(w, simCore.Snapshot())
		})
		if err != nil {
			return fmt.Errorf("writing grid: %w", err)
		}
	}

	final := simCore.Snapshot().Census()
	_, err = fmt.Fprintf(out, "seed %d, %d ticks: %d bacteria, %d immune cells, %d healthy, %d infected\n",
		cfg.Seed, opts.Ticks, final.Bacteria, final.Immune, final.Healthy, final.Infected)
	return err
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// applyFlagOverrides copies explicitly set flags over the file and
// environment configuration
func applyFlagOverrides(fs *flag.FlagSet, cfg *config.Config, seed int64, boundary string) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = seed
		case "boundary":
			cfg.Boundary = boundary
		}
	})
}

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to the JSON config file")
	ticks := flag.Int("ticks", 500, "Number of ticks to run")
	seed := flag.Int64("seed", 0, "Random seed, overrides config (0 seeds from the clock)")
	bacteria := flag.Int("bacteria", 5, "Bacteria spawned before the first tick")
	boundary := flag.String("boundary", "clamp", "Boundary policy: clamp or wrap (overrides config)")
	csvPath := flag.String("csv", "population.csv", "CSV output path, empty to skip")
	chartPath := flag.String("chart", "population.png", "PNG chart output path, empty to skip")
	gridPath := flag.String("grid", "", "Final grid dump path, empty to skip")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlagOverrides(flag.CommandLine, cfg, *seed, *boundary)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	err = run(reportOptions{
		Config:    cfg,
		Ticks:     *ticks,
		Bacteria:  *bacteria,
		CSVPath:   *csvPath,
		ChartPath: *chartPath,
		GridPath:  *gridPath,
	}, os.Stdout)
	if err != nil {
		log.Fatalf("Report failed: %v", err)
	}
}
