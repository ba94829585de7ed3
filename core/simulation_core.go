// Package core runs the simulation engine on a fixed-period ticker and
// serializes external requests with tick execution.
package core

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"time"

	"immunesim/shared"
	"immunesim/sim"
)

// ErrObserverAttached is returned by Subscribe when an observer is already attached
var ErrObserverAttached = errors.New("observer already attached")

// State is the orchestrator state
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Options configures a SimulationCore
type Options struct {
	Width      int
	Height     int
	Boundary   sim.Boundary
	TickRate   time.Duration
	OutputPath string // grid dump rewritten after every change; empty disables it
	DevMode    bool   // log every tick
}

// SimulationCore owns the current snapshot and the ticker goroutine
type SimulationCore struct {
	opts       Options
	rng        *rand.Rand
	mu         sync.Mutex
	snapshot   *sim.Snapshot
	state      State
	stopChan   chan struct{}
	loopDone   chan struct{}
	observer   chan shared.SimulationTickEvent
	outputFile *os.File
}

// NewSimulationCore creates an idle core with a freshly initialized snapshot
func NewSimulationCore(opts Options, rng *rand.Rand) (*SimulationCore, error) {
	if opts.TickRate <= 0 {
		return nil, fmt.Errorf("tick rate must be positive, got %v", opts.TickRate)
	}
	snapshot, err := sim.Initialize(opts.Width, opts.Height, opts.Boundary, rng)
	if err != nil {
		return nil, fmt.Errorf("initializing simulation: %w", err)
	}

	core := &SimulationCore{
		opts:     opts,
		rng:      rng,
		snapshot: snapshot,
		state:    Idle,
	}

	if opts.OutputPath != "" {
		file, err := os.OpenFile(opts.OutputPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return nil, fmt.Errorf("opening output file %s: %w", opts.OutputPath, err)
		}
		core.outputFile = file
		log.Printf("Grid output will be written to %s", opts.OutputPath)
		core.printState()
	}

	log.Printf("Simulation core initialized with %dx%d grid (%s boundary, tick every %v)",
		opts.Width, opts.Height, opts.Boundary, opts.TickRate)
	return core, nil
}

// Snapshot returns the current snapshot. It must not be modified.
func (s *SimulationCore) Snapshot() *sim.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// State returns the current orchestrator state
func (s *SimulationCore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GetSnapshotState returns the wire view of the current snapshot
func (s *SimulationCore) GetSnapshotState() shared.SnapshotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return shared.FromSnapshot(s.snapshot, s.state.String())
}

// Start begins ticking. It reports false if the core was already running.
func (s *SimulationCore) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running {
		return false
	}

	s.state = Running
	s.stopChan = make(chan struct{})
	s.loopDone = make(chan struct{})
	go s.simulationLoop(s.stopChan, s.loopDone)

	log.Printf("Simulation started at tick %d", s.snapshot.Tick)
	s.publish("start", nil)
	return true
}

// Pause stops ticking and waits for the ticker goroutine to exit. It
// reports false if the core was already idle.
func (s *SimulationCore) Pause() bool {
	s.mu.Lock()
	done := s.pauseLocked()
	s.mu.Unlock()

	if done == nil {
		return false
	}
	<-done
	return true
}

// pauseLocked moves to Idle and returns the channel closed when the stopped
// ticker goroutine exits, or nil if the core was idle. The caller holds mu
// and must release it before waiting on the channel.
func (s *SimulationCore) pauseLocked() <-chan struct{} {
	if s.state != Running {
		return nil
	}
	s.state = Idle
	close(s.stopChan)
	s.stopChan = nil
	done := s.loopDone
	s.loopDone = nil
	log.Printf("Simulation paused at tick %d", s.snapshot.Tick)
	s.publish("pause", nil)
	return done
}

// Reset pauses the simulation and replaces the snapshot with a fresh one.
// Both happen in one critical section so a concurrent Start cannot slip in.
func (s *SimulationCore) Reset() error {
	s.mu.Lock()
	done := s.pauseLocked()
	snapshot, err := sim.Reset(s.opts.Width, s.opts.Height, s.opts.Boundary, s.rng)
	if err == nil {
		s.snapshot = snapshot
		log.Println("Simulation reset")
		s.publish("reset", nil)
	}
	s.mu.Unlock()

	if done != nil {
		<-done
	}
	if err != nil {
		return fmt.Errorf("resetting simulation: %w", err)
	}
	return nil
}

// Step runs exactly one tick regardless of state
func (s *SimulationCore) Step() sim.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advance()
}

// SpawnBacterium adds one bacterium at a free cell. It reports whether one was added.
func (s *SimulationCore) SpawnBacterium() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, added := sim.RequestSpawnBacterium(s.snapshot, s.rng)
	if !added {
		log.Println("SpawnBacterium: no free cell found")
		return false
	}
	s.snapshot = next
	b := next.Bacteria[len(next.Bacteria)-1]
	log.Printf("Bacterium %d spawned at (%d, %d)", b.ID, b.Pos.X, b.Pos.Y)
	s.publish("spawn", nil)
	return true
}

// SpawnImmuneCell adds one immune cell of the given species, or a random
// one when species is nil. It reports whether one was added.
func (s *SimulationCore) SpawnImmuneCell(species *sim.Species) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, added := sim.RequestSpawnImmuneCell(s.snapshot, s.rng, species)
	if !added {
		log.Println("SpawnImmuneCell: sampled cell is occupied")
		return false
	}
	s.snapshot = next
	cell := next.Immune[len(next.Immune)-1]
	log.Printf("Immune cell %d (%s) spawned at (%d, %d)", cell.ID, cell.Species, cell.Pos.X, cell.Pos.Y)
	s.publish("spawn", nil)
	return true
}

// Subscribe attaches the single observer. Events are delivered in order on
// the returned channel; when the observer falls behind by more than buffer
// events the oldest pending one is dropped. The cancel func detaches the
// observer and closes the channel.
func (s *SimulationCore) Subscribe(buffer int) (<-chan shared.SimulationTickEvent, func(), error) {
	if buffer < 1 {
		buffer = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.observer != nil {
		return nil, nil, ErrObserverAttached
	}
	ch := make(chan shared.SimulationTickEvent, buffer)
	s.observer = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.observer == ch {
				s.observer = nil
				close(ch)
			}
		})
	}
	return ch, cancel, nil
}

// Stop halts the ticker, detaches the observer and closes the output file
func (s *SimulationCore) Stop() {
	log.Println("Shutting down simulation core...")
	s.Pause()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.observer != nil {
		close(s.observer)
		s.observer = nil
	}
	if s.outputFile != nil {
		log.Printf("Closing output file: %s", s.outputFile.Name())
		if err := s.outputFile.Close(); err != nil {
			log.Printf("Error closing output file: %v", err)
		}
		s.outputFile = nil
	}
}

func (s *SimulationCore) simulationLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.opts.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			// A tick that raced with Pause must not run
			if s.stopChan == stop {
				s.advance()
			}
			s.mu.Unlock()
		}
	}
}

// advance runs one tick. The caller holds mu.
func (s *SimulationCore) advance() sim.Report {
	tickStart := time.Now()
	next, report := sim.Tick(s.snapshot, s.rng)
	s.snapshot = next

	if s.opts.DevMode {
		c := next.Census()
		log.Printf("Simulation tick %d completed in %v: %d bacteria, %d immune cells, %d healthy, %d infected",
			next.Tick, time.Since(tickStart), c.Bacteria, c.Immune, c.Healthy, c.Infected)
	}
	s.publish("tick", report.Events)
	return report
}

// publish hands the current snapshot to the observer and the output file.
// The caller holds mu.
func (s *SimulationCore) publish(reason string, events []sim.Event) {
	if s.outputFile != nil {
		s.printState()
	}
	if s.observer == nil {
		return
	}

	event := shared.SimulationTickEvent{
		TickNumber: s.snapshot.Tick,
		Timestamp:  time.Now(),
		Reason:     reason,
		Snapshot:   shared.FromSnapshot(s.snapshot, s.state.String()),
		Events:     shared.FromEvents(events),
	}
	for {
		select {
		case s.observer <- event:
			return
		default:
		}
		// Full: drop the oldest pending event
		select {
		case <-s.observer:
		default:
		}
	}
}
