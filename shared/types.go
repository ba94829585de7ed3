// Package shared contains the wire types exchanged between the simulation
// server and its clients. It defines snapshot views, tick events, and the
// control commands accepted from the viewer session.
package shared

import (
	"time"

	"immunesim/sim"
)

// Position represents a 2D coordinate on the grid
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// AgentState represents one agent in a snapshot
type AgentState struct {
	ID        int      `json:"id"`
	Kind      string   `json:"kind"` // macrophage, tcell, bcell or bacterium
	Position  Position `json:"position"`
	Marked    bool     `json:"marked,omitempty"`
	Direction string   `json:"direction,omitempty"`
}

// Counts summarizes a snapshot's populations
type Counts struct {
	Bacteria       int `json:"bacteria"`
	MarkedBacteria int `json:"marked_bacteria"`
	Immune         int `json:"immune"`
	Macrophages    int `json:"macrophages"`
	TCells         int `json:"tcells"`
	BCells         int `json:"bcells"`
	Healthy        int `json:"healthy"`
	Infected       int `json:"infected"`
}

// SnapshotState represents the complete grid and agent state at a tick boundary
type SnapshotState struct {
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Boundary string       `json:"boundary"`
	Tick     int          `json:"tick"`
	State    string       `json:"state"` // idle or running
	Healthy  []Position   `json:"healthy"`
	Infected []Position   `json:"infected"`
	Immune   []AgentState `json:"immune"`
	Bacteria []AgentState `json:"bacteria"`
	Counts   Counts       `json:"counts"`
}

// EventState represents one rule firing during a tick
type EventState struct {
	Type     string   `json:"type"`
	Position Position `json:"position"`
	AgentID  int      `json:"agent_id"`
}

// SimulationTickEvent is published after every change to the snapshot
type SimulationTickEvent struct {
	TickNumber int           `json:"tick_number"`
	Timestamp  time.Time     `json:"timestamp"`
	Reason     string        `json:"reason"` // tick, spawn, reset, start, pause
	Snapshot   SnapshotState `json:"snapshot"`
	Events     []EventState  `json:"events,omitempty"`
}

// CommandType names a control request
type CommandType string

const (
	CommandStart          CommandType = "start"
	CommandPause          CommandType = "pause"
	CommandReset          CommandType = "reset"
	CommandSpawnBacterium CommandType = "spawn_bacterium"
	CommandSpawnImmune    CommandType = "spawn_immune"
)

// ControlCommand is sent by a viewer to drive the simulation
type ControlCommand struct {
	Command CommandType `json:"command"`
	Species string      `json:"species,omitempty"` // spawn_immune only; empty picks at random
}

// ControlResponse acknowledges a ControlCommand
type ControlResponse struct {
	Command CommandType `json:"command"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	State   string      `json:"state"`
}

// Viewer message types
const (
	MessageEvent    = "event"
	MessageResponse = "response"
)

// ViewerMessage is the envelope for everything the server writes to a viewer
type ViewerMessage struct {
	Type     string               `json:"type"`
	Event    *SimulationTickEvent `json:"event,omitempty"`
	Response *ControlResponse     `json:"response,omitempty"`
}

// FromPosition converts an engine coordinate
func FromPosition(c sim.Coordinate) Position {
	return Position{X: c.X, Y: c.Y}
}

// FromSnapshot builds the wire view of s. state is the orchestrator state name.
func FromSnapshot(s *sim.Snapshot, state string) SnapshotState {
	out := SnapshotState{
		Width:    s.Geometry.Width,
		Height:   s.Geometry.Height,
		Boundary: s.Geometry.Boundary.String(),
		Tick:     s.Tick,
		State:    state,
		Healthy:  positions(s.Tissue.Coordinates(sim.TissueHealthy)),
		Infected: positions(s.Tissue.Coordinates(sim.TissueInfected)),
		Immune:   make([]AgentState, 0, len(s.Immune)),
		Bacteria: make([]AgentState, 0, len(s.Bacteria)),
		Counts:   FromCensus(s.Census()),
	}
	for _, cell := range s.Immune {
		out.Immune = append(out.Immune, AgentState{
			ID:        cell.ID,
			Kind:      cell.Species.String(),
			Position:  FromPosition(cell.Pos),
			Direction: cell.LastDir.String(),
		})
	}
	for _, b := range s.Bacteria {
		out.Bacteria = append(out.Bacteria, AgentState{
			ID:       b.ID,
			Kind:     "bacterium",
			Position: FromPosition(b.Pos),
			Marked:   b.Marked,
		})
	}
	return out
}

// FromCensus converts engine counts
func FromCensus(c sim.Census) Counts {
	return Counts{
		Bacteria:       c.Bacteria,
		MarkedBacteria: c.MarkedBacteria,
		Immune:         c.Immune,
		Macrophages:    c.Macrophages,
		TCells:         c.TCells,
		BCells:         c.BCells,
		Healthy:        c.Healthy,
		Infected:       c.Infected,
	}
}

// FromEvents converts a tick report's events
func FromEvents(events []sim.Event) []EventState {
	if len(events) == 0 {
		return nil
	}
	out := make([]EventState, len(events))
	for i, e := range events {
		out[i] = EventState{
			Type:     e.Type.String(),
			Position: FromPosition(e.Pos),
			AgentID:  e.AgentID,
		}
	}
	return out
}

func positions(cs []sim.Coordinate) []Position {
	out := make([]Position, len(cs))
	for i, c := range cs {
		out[i] = FromPosition(c)
	}
	return out
}
