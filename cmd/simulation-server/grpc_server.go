package main

import (
	"context"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"immunesim/control"
	"immunesim/core"
)

// loggingInterceptor logs every control call with its duration and outcome
func loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		log.Printf("gRPC %s failed in %v: %s", info.FullMethod, time.Since(start), status.Convert(err).Message())
		return resp, err
	}
	log.Printf("gRPC %s completed in %v", info.FullMethod, time.Since(start))
	return resp, nil
}

// NewGRPCServer creates a gRPC server exposing the control service and the
// standard health service for simCore
func NewGRPCServer(simCore *core.SimulationCore) *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor))
	control.RegisterControlServer(s, control.NewServer(simCore))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(control.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)
	return s
}

// serveGRPC listens on port and serves s until it is stopped
func serveGRPC(s *grpc.Server, port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}
	log.Printf("gRPC server listening on port %s", port)
	return s.Serve(lis)
}
