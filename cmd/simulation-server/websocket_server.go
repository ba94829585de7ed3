package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"immunesim/core"
	"immunesim/shared"
	"immunesim/sim"
)

const viewerBuffer = 16

// WebSocketServer serves the single viewer session and the HTTP status endpoints
type WebSocketServer struct {
	core         *core.SimulationCore
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	pongWait     time.Duration // read deadline, extended by every pong
}

// NewWebSocketServer creates a new WebSocket server for simCore
func NewWebSocketServer(simCore *core.SimulationCore) *WebSocketServer {
	return &WebSocketServer{
		core: simCore,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow connections from any origin
			},
		},
		pingInterval: 30 * time.Second,
		pongWait:     60 * time.Second,
	}
}

// Routes returns the HTTP handlers of the server
func (s *WebSocketServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleViewer)
	mux.HandleFunc("/health", s.HealthCheck)
	mux.HandleFunc("/status", s.Status)
	return mux
}

// HandleViewer upgrades the request and streams snapshots until the viewer
// disconnects. Only one viewer may be attached at a time.
func (s *WebSocketServer) HandleViewer(w http.ResponseWriter, r *http.Request) {
	events, cancel, err := s.core.Subscribe(viewerBuffer)
	if errors.Is(err, core.ErrObserverAttached) {
		http.Error(w, "a viewer is already attached", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		cancel()
		return
	}
	log.Printf("Viewer connected from %s", r.RemoteAddr)

	defer func() {
		cancel()
		conn.Close()
		log.Printf("Viewer %s disconnected", r.RemoteAddr)
	}()

	initial := shared.SimulationTickEvent{Timestamp: time.Now(), Reason: "connect", Snapshot: s.core.GetSnapshotState()}
	initial.TickNumber = initial.Snapshot.Tick
	if err := conn.WriteJSON(shared.ViewerMessage{Type: shared.MessageEvent, Event: &initial}); err != nil {
		log.Printf("Failed to send initial snapshot: %v", err)
		return
	}

	conn.SetReadDeadline(time.Now().Add(s.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.pongWait))
	})

	responses := make(chan shared.ControlResponse, viewerBuffer)
	quit := make(chan struct{})
	readerDone := make(chan struct{})
	defer close(quit)
	go s.readCommands(conn, responses, quit, readerDone)
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(shared.ViewerMessage{Type: shared.MessageEvent, Event: &event}); err != nil {
				log.Printf("Failed to send tick %d to viewer: %v", event.TickNumber, err)
				return
			}
		case resp := <-responses:
			if err := conn.WriteJSON(shared.ViewerMessage{Type: shared.MessageResponse, Response: &resp}); err != nil {
				log.Printf("Failed to send %s response to viewer: %v", resp.Command, err)
				return
			}
		case <-readerDone:
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Viewer ping failed: %v", err)
				return
			}
		}
	}
}

// readCommands applies viewer commands until the connection fails or quit closes
func (s *WebSocketServer) readCommands(conn *websocket.Conn, responses chan<- shared.ControlResponse, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		var cmd shared.ControlCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Viewer read failed: %v", err)
			}
			return
		}
		resp := s.apply(cmd)
		select {
		case responses <- resp:
		case <-quit:
			return
		}
	}
}

// apply executes one viewer command against the core
func (s *WebSocketServer) apply(cmd shared.ControlCommand) shared.ControlResponse {
	resp := shared.ControlResponse{Command: cmd.Command}

	switch cmd.Command {
	case shared.CommandStart:
		resp.Success = s.core.Start()
		resp.Message = outcome(resp.Success, "simulation started", "simulation already running")
	case shared.CommandPause:
		resp.Success = s.core.Pause()
		resp.Message = outcome(resp.Success, "simulation paused", "simulation already paused")
	case shared.CommandReset:
		if err := s.core.Reset(); err != nil {
			resp.Message = err.Error()
		} else {
			resp.Success = true
			resp.Message = "simulation reset"
		}
	case shared.CommandSpawnBacterium:
		resp.Success = s.core.SpawnBacterium()
		resp.Message = outcome(resp.Success, "bacterium added", "no free cell found")
	case shared.CommandSpawnImmune:
		var species *sim.Species
		if cmd.Species != "" {
			sp, err := sim.ParseSpecies(cmd.Species)
			if err != nil {
				resp.Message = err.Error()
				break
			}
			species = &sp
		}
		resp.Success = s.core.SpawnImmuneCell(species)
		resp.Message = outcome(resp.Success, "immune cell added", "sampled cell is occupied")
	default:
		resp.Message = "unknown command"
	}

	resp.State = s.core.State().String()
	log.Printf("Viewer command %s: %s", cmd.Command, resp.Message)
	return resp
}

func outcome(ok bool, success, failure string) string {
	if ok {
		return success
	}
	return failure
}

// HealthCheck endpoint
func (s *WebSocketServer) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// Status endpoint
func (s *WebSocketServer) Status(w http.ResponseWriter, r *http.Request) {
	state := s.core.GetSnapshotState()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"width":    state.Width,
		"height":   state.Height,
		"boundary": state.Boundary,
		"tick":     state.Tick,
		"state":    state.State,
		"counts":   state.Counts,
	})
}
