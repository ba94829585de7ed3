// Command immunectl drives a running simulation server over gRPC.
//
// Usage:
//
//	immunectl [-server addr] start|pause|reset|status
//	immunectl [-server addr] step [n]
//	immunectl [-server addr] spawn-bacterium
//	immunectl [-server addr] spawn-immune [macrophage|tcell|bcell]
//	immunectl [-server addr] [-poll_ms ms] watch
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"text/template"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"immunesim/control"
	"immunesim/shared"
)

//go:embed status_template.txt
var statusTemplate string

var statusTmpl = template.Must(template.New("status").Parse(statusTemplate))

var errUsage = errors.New("usage: immunectl [-server addr] start|pause|reset|step [n]|spawn-bacterium|spawn-immune [species]|status|watch")

// Controller issues control commands and prints their outcome
type Controller struct {
	Client  control.ControlClient
	Out     io.Writer
	Timeout time.Duration
	Poll    time.Duration
}

// Run executes one command line verb
func (c *Controller) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "start":
		return c.toggle(ctx, c.Client.Start, "started", "already running")
	case "pause":
		return c.toggle(ctx, c.Client.Pause, "paused", "already paused")
	case "reset":
		callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
		defer cancel()
		if _, err := c.Client.Reset(callCtx, &emptypb.Empty{}); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		fmt.Fprintln(c.Out, "Simulation reset")
		return nil
	case "step":
		n := 1
		if len(args) > 1 {
			var err error
			if n, err = strconv.Atoi(args[1]); err != nil || n < 1 {
				return fmt.Errorf("step count must be a positive integer, got %q", args[1])
			}
		}
		return c.step(ctx, n)
	case "spawn-bacterium":
		callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
		defer cancel()
		added, err := c.Client.SpawnBacterium(callCtx, &emptypb.Empty{})
		if err != nil {
			return fmt.Errorf("spawn failed: %w", err)
		}
		fmt.Fprintln(c.Out, outcome(added.GetValue(), "Bacterium added", "No free cell found"))
		return nil
	case "spawn-immune":
		species := ""
		if len(args) > 1 {
			species = args[1]
		}
		callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
		defer cancel()
		added, err := c.Client.SpawnImmuneCell(callCtx, wrapperspb.String(species))
		if err != nil {
			return fmt.Errorf("spawn failed: %w", err)
		}
		fmt.Fprintln(c.Out, outcome(added.GetValue(), "Immune cell added", "Sampled cell is occupied"))
		return nil
	case "status":
		state, err := c.snapshot(ctx)
		if err != nil {
			return err
		}
		return statusTmpl.Execute(c.Out, state)
	case "watch":
		return c.watch(ctx)
	default:
		return errUsage
	}
}

func (c *Controller) toggle(ctx context.Context, call func(context.Context, *emptypb.Empty, ...grpc.CallOption) (*wrapperspb.BoolValue, error), changed, unchanged string) error {
	callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	resp, err := call(callCtx, &emptypb.Empty{})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	fmt.Fprintln(c.Out, "Simulation "+outcome(resp.GetValue(), changed, unchanged))
	return nil
}

func (c *Controller) step(ctx context.Context, n int) error {
	var tick int64
	for i := 0; i < n; i++ {
		callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
		resp, err := c.Client.Step(callCtx, &emptypb.Empty{})
		cancel()
		if err != nil {
			return fmt.Errorf("step failed: %w", err)
		}
		tick = resp.GetValue()
	}
	fmt.Fprintf(c.Out, "Advanced to tick %d\n", tick)
	return nil
}

func (c *Controller) snapshot(ctx context.Context) (shared.SnapshotState, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	resp, err := c.Client.GetSnapshot(callCtx, &emptypb.Empty{})
	if err != nil {
		return shared.SnapshotState{}, fmt.Errorf("fetching snapshot: %w", err)
	}
	return control.DecodeSnapshot(resp)
}

// watch prints one summary line per new tick until ctx is cancelled
func (c *Controller) watch(ctx context.Context) error {
	if c.Poll <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.Poll)
	}
	ticker := time.NewTicker(c.Poll)
	defer ticker.Stop()

	last := -1
	for {
		state, err := c.snapshot(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if state.Tick != last {
			last = state.Tick
			fmt.Fprintf(c.Out, "tick %5d  %-7s  bacteria %3d  immune %2d  healthy %3d  infected %3d\n",
				state.Tick, state.State, state.Counts.Bacteria, state.Counts.Immune, state.Counts.Healthy, state.Counts.Infected)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func outcome(ok bool, success, failure string) string {
	if ok {
		return success
	}
	return failure
}

func main() {
	serverURL := flag.String("server", "localhost:9090", "Simulation server gRPC address")
	timeout := flag.Duration("timeout", 5*time.Second, "Per request timeout")
	pollMs := flag.Int("poll_ms", 250, "Polling interval in milliseconds for watch")
	flag.Parse()

	conn, err := grpc.NewClient(*serverURL, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("Failed to connect to simulation server: %v", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("Error closing gRPC connection: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &Controller{
		Client:  control.NewControlClient(conn),
		Out:     os.Stdout,
		Timeout: *timeout,
		Poll:    time.Duration(*pollMs) * time.Millisecond,
	}
	if err := c.Run(ctx, flag.Args()); err != nil {
		log.Fatal(err)
	}
}
