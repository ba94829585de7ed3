package control

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"immunesim/shared"
	"immunesim/sim"
)

// Simulation is the orchestrator surface the control service drives.
// *core.SimulationCore satisfies it.
type Simulation interface {
	Start() bool
	Pause() bool
	Reset() error
	Step() sim.Report
	SpawnBacterium() bool
	SpawnImmuneCell(species *sim.Species) bool
	GetSnapshotState() shared.SnapshotState
}

// Server implements ControlServer on top of a Simulation
type Server struct {
	UnimplementedControlServer

	sim Simulation
}

// NewServer creates a control server for s
func NewServer(s Simulation) *Server {
	return &Server{sim: s}
}

// Start implements the Start RPC
func (s *Server) Start(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.sim.Start()), nil
}

// Pause implements the Pause RPC
func (s *Server) Pause(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.sim.Pause()), nil
}

// Reset implements the Reset RPC
func (s *Server) Reset(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.sim.Reset(); err != nil {
		log.Printf("Reset failed: %v", err)
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &emptypb.Empty{}, nil
}

// Step implements the Step RPC
func (s *Server) Step(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	report := s.sim.Step()
	return wrapperspb.Int64(int64(report.Tick)), nil
}

// SpawnBacterium implements the SpawnBacterium RPC
func (s *Server) SpawnBacterium(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.sim.SpawnBacterium()), nil
}

// SpawnImmuneCell implements the SpawnImmuneCell RPC
func (s *Server) SpawnImmuneCell(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	var species *sim.Species
	if name := req.GetValue(); name != "" {
		sp, err := sim.ParseSpecies(name)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		species = &sp
	}
	return wrapperspb.Bool(s.sim.SpawnImmuneCell(species)), nil
}

// GetSnapshot implements the GetSnapshot RPC
func (s *Server) GetSnapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	out, err := EncodeSnapshot(s.sim.GetSnapshotState())
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// HealthCheck implements the HealthCheck RPC
func (s *Server) HealthCheck(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	state := s.sim.GetSnapshotState()
	out, err := structpb.NewStruct(map[string]any{
		"status": "healthy",
		"state":  state.State,
		"tick":   state.Tick,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// EncodeSnapshot converts a snapshot view to a protobuf Struct
func EncodeSnapshot(state shared.SnapshotState) (*structpb.Struct, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return structpb.NewStruct(fields)
}

// DecodeSnapshot converts a protobuf Struct produced by EncodeSnapshot back
func DecodeSnapshot(s *structpb.Struct) (shared.SnapshotState, error) {
	var state shared.SnapshotState
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return state, fmt.Errorf("decoding snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("decoding snapshot: %w", err)
	}
	return state, nil
}
