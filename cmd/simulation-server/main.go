// Command simulation-server hosts one immune response simulation and exposes
// it over a websocket viewer session and a gRPC control service.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"immunesim/config"
	"immunesim/core"
)

func main() {
	configPath := flag.String("config", config.GetDefaultConfigPath(), "Path to the JSON config file")
	initConfig := flag.Bool("init-config", false, "Write a default config file and exit")
	devMode := flag.Bool("dev", false, "Log every tick")
	port := flag.String("port", "", "Port for the HTTP and websocket server (overrides config)")
	grpcPort := flag.String("grpc-port", "", "Port for the gRPC control server (overrides config)")
	width := flag.Int("width", 0, "Grid width (overrides config)")
	height := flag.Int("height", 0, "Grid height (overrides config)")
	tickMS := flag.Int("tick-ms", 0, "Tick period in milliseconds (overrides config)")
	seed := flag.Int64("seed", 0, "Random seed, 0 for time based (overrides config)")
	boundary := flag.String("boundary", "", "Boundary policy: clamp or wrap (overrides config)")
	output := flag.String("output", "", "Grid dump file (overrides config)")
	autostart := flag.Bool("autostart", false, "Start ticking immediately (overrides config)")
	flag.Parse()

	if *initConfig {
		if err := config.SaveDefaultConfig(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Explicit flags win over the file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.HTTPPort = *port
		case "grpc-port":
			cfg.GRPCPort = *grpcPort
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "tick-ms":
			cfg.TickRateMS = *tickMS
		case "seed":
			cfg.Seed = *seed
		case "boundary":
			cfg.Boundary = *boundary
		case "output":
			cfg.OutputFile = *output
		case "autostart":
			cfg.Autostart = *autostart
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *devMode {
		log.Println("Running in development mode")
	}

	boundaryPolicy, _ := cfg.BoundaryPolicy()
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	log.Printf("Using random seed %d", cfg.Seed)

	simCore, err := core.NewSimulationCore(core.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Boundary:   boundaryPolicy,
		TickRate:   cfg.TickRate(),
		OutputPath: cfg.OutputFile,
		DevMode:    *devMode,
	}, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		log.Fatalf("Failed to create simulation core: %v", err)
	}
	defer simCore.Stop()

	grpcServer := NewGRPCServer(simCore)
	go func() {
		if err := serveGRPC(grpcServer, cfg.GRPCPort); err != nil {
			log.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	wsServer := NewWebSocketServer(simCore)
	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: wsServer.Routes(),
	}
	go func() {
		log.Printf("HTTP server listening on port %s (viewer at /ws)", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	if cfg.Autostart {
		simCore.Start()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down simulation server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	grpcServer.GracefulStop()
}
