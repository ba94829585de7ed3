// Package control defines the gRPC control service of the simulation
// server. Messages are protobuf well-known types so the service needs no
// generated code: snapshots travel as a google.protobuf.Struct holding the
// shared.SnapshotState JSON document.
package control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "immunesim.control.v1.Control"

// Full method names
const (
	MethodStart           = "/" + ServiceName + "/Start"
	MethodPause           = "/" + ServiceName + "/Pause"
	MethodReset           = "/" + ServiceName + "/Reset"
	MethodStep            = "/" + ServiceName + "/Step"
	MethodSpawnBacterium  = "/" + ServiceName + "/SpawnBacterium"
	MethodSpawnImmuneCell = "/" + ServiceName + "/SpawnImmuneCell"
	MethodGetSnapshot     = "/" + ServiceName + "/GetSnapshot"
	MethodHealthCheck     = "/" + ServiceName + "/HealthCheck"
)

// ControlServer is the server API for the control service
type ControlServer interface {
	// Start begins ticking; the result reports whether the state changed
	Start(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	// Pause stops ticking; the result reports whether the state changed
	Pause(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	Reset(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	// Step runs one tick and returns the new tick number
	Step(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error)
	SpawnBacterium(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	// SpawnImmuneCell takes a species name; empty picks one at random
	SpawnImmuneCell(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	GetSnapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	HealthCheck(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// UnimplementedControlServer can be embedded to have forward compatible implementations
type UnimplementedControlServer struct{}

func (UnimplementedControlServer) Start(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Start not implemented")
}
func (UnimplementedControlServer) Pause(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Pause not implemented")
}
func (UnimplementedControlServer) Reset(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Reset not implemented")
}
func (UnimplementedControlServer) Step(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Step not implemented")
}
func (UnimplementedControlServer) SpawnBacterium(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method SpawnBacterium not implemented")
}
func (UnimplementedControlServer) SpawnImmuneCell(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method SpawnImmuneCell not implemented")
}
func (UnimplementedControlServer) GetSnapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSnapshot not implemented")
}
func (UnimplementedControlServer) HealthCheck(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method HealthCheck not implemented")
}

// RegisterControlServer registers srv on s
func RegisterControlServer(s grpc.ServiceRegistrar, srv ControlServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed ControlServer method to a grpc.MethodHandler
func unaryHandler[Req, Resp any](fullMethod string, call func(ControlServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ControlServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc is the grpc.ServiceDesc for the control service
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Start", Handler: unaryHandler(MethodStart, ControlServer.Start)},
		{MethodName: "Pause", Handler: unaryHandler(MethodPause, ControlServer.Pause)},
		{MethodName: "Reset", Handler: unaryHandler(MethodReset, ControlServer.Reset)},
		{MethodName: "Step", Handler: unaryHandler(MethodStep, ControlServer.Step)},
		{MethodName: "SpawnBacterium", Handler: unaryHandler(MethodSpawnBacterium, ControlServer.SpawnBacterium)},
		{MethodName: "SpawnImmuneCell", Handler: unaryHandler(MethodSpawnImmuneCell, ControlServer.SpawnImmuneCell)},
		{MethodName: "GetSnapshot", Handler: unaryHandler(MethodGetSnapshot, ControlServer.GetSnapshot)},
		{MethodName: "HealthCheck", Handler: unaryHandler(MethodHealthCheck, ControlServer.HealthCheck)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "immunesim/control.proto",
}

// ControlClient is the client API for the control service
type ControlClient interface {
	Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	Pause(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	Reset(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Step(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error)
	SpawnBacterium(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	SpawnImmuneCell(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	GetSnapshot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	HealthCheck(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type controlClient struct {
	cc grpc.ClientConnInterface
}

// NewControlClient wraps a client connection
func NewControlClient(cc grpc.ClientConnInterface) ControlClient {
	return &controlClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlClient) Start(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	return invoke[wrapperspb.BoolValue](ctx, c.cc, MethodStart, in, opts)
}

func (c *controlClient) Pause(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	return invoke[wrapperspb.BoolValue](ctx, c.cc, MethodPause, in, opts)
}

func (c *controlClient) Reset(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodReset, in, opts)
}

func (c *controlClient) Step(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	return invoke[wrapperspb.Int64Value](ctx, c.cc, MethodStep, in, opts)
}

func (c *controlClient) SpawnBacterium(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	return invoke[wrapperspb.BoolValue](ctx, c.cc, MethodSpawnBacterium, in, opts)
}

func (c *controlClient) SpawnImmuneCell(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	return invoke[wrapperspb.BoolValue](ctx, c.cc, MethodSpawnImmuneCell, in, opts)
}

func (c *controlClient) GetSnapshot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, MethodGetSnapshot, in, opts)
}

func (c *controlClient) HealthCheck(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, MethodHealthCheck, in, opts)
}
