package main

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"immunesim/core"
	"immunesim/shared"
)

func newTestServer(t *testing.T) (*httptest.Server, *core.SimulationCore) {
	t.Helper()
	return newTestServerWithKeepAlive(t, 30*time.Second, 60*time.Second)
}

func newTestServerWithKeepAlive(t *testing.T, ping, pongWait time.Duration) (*httptest.Server, *core.SimulationCore) {
	t.Helper()
	simCore, err := core.NewSimulationCore(core.Options{
		Width:    50,
		Height:   50,
		TickRate: time.Hour,
	}, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewSimulationCore: %v", err)
	}
	ws := NewWebSocketServer(simCore)
	ws.pingInterval, ws.pongWait = ping, pongWait
	srv := httptest.NewServer(ws.Routes())
	t.Cleanup(func() {
		simCore.Stop()
		srv.Close()
	})
	return srv, simCore
}

func dialViewer(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) shared.ViewerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg shared.ViewerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func TestViewerReceivesInitialSnapshot(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialViewer(t, srv)

	msg := readMessage(t, conn)
	if msg.Type != shared.MessageEvent || msg.Event == nil {
		t.Fatalf("Expected an event, got %+v", msg)
	}
	if msg.Event.Reason != "connect" || len(msg.Event.Snapshot.Immune) != 3 {
		t.Errorf("Unexpected initial event %+v", msg.Event)
	}
}

func TestViewerSpawnCommand(t *testing.T) {
	srv, simCore := newTestServer(t)
	conn := dialViewer(t, srv)
	readMessage(t, conn)

	if err := conn.WriteJSON(shared.ControlCommand{Command: shared.CommandSpawnBacterium}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var sawEvent, sawResponse bool
	for !(sawEvent && sawResponse) {
		msg := readMessage(t, conn)
		switch msg.Type {
		case shared.MessageEvent:
			if msg.Event.Reason == "spawn" && msg.Event.Snapshot.Counts.Bacteria == 1 {
				sawEvent = true
			}
		case shared.MessageResponse:
			if msg.Response.Command != shared.CommandSpawnBacterium || !msg.Response.Success {
				t.Errorf("Unexpected response %+v", msg.Response)
			}
			sawResponse = true
		}
	}
	if len(simCore.Snapshot().Bacteria) != 1 {
		t.Errorf("Expected 1 bacterium in the core, got %d", len(simCore.Snapshot().Bacteria))
	}
}

func TestViewerUnknownCommand(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialViewer(t, srv)
	readMessage(t, conn)

	if err := conn.WriteJSON(shared.ControlCommand{Command: "explode"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	msg := readMessage(t, conn)
	if msg.Type != shared.MessageResponse || msg.Response.Success || msg.Response.Message != "unknown command" {
		t.Errorf("Expected failed response, got %+v", msg)
	}
}

func TestSecondViewerRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialViewer(t, srv)
	readMessage(t, conn)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Expected second viewer to be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 Conflict, got %v", resp)
	}
}

func TestSilentViewerIsDropped(t *testing.T) {
	srv, _ := newTestServerWithKeepAlive(t, 10*time.Millisecond, 50*time.Millisecond)
	// Never reading means pings go unanswered
	dialViewer(t, srv)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	deadline := time.Now().Add(2 * time.Second)
	for {
		conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			conn.Close()
			return
		}
		if resp == nil || resp.StatusCode != http.StatusConflict {
			t.Fatalf("Dial: %v", err)
		}
		if time.Now().After(deadline) {
			t.Fatal("Expected the silent viewer to be dropped after the pong wait")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRespondingViewerStaysAttached(t *testing.T) {
	srv, _ := newTestServerWithKeepAlive(t, 10*time.Millisecond, 50*time.Millisecond)
	conn := dialViewer(t, srv)
	// Reading runs the default ping handler, which answers with a pong
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	time.Sleep(200 * time.Millisecond)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Expected the responding viewer to keep its session")
	}
	if resp == nil || resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected status %d, got %v", http.StatusConflict, resp)
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Width  int           `json:"width"`
		State  string        `json:"state"`
		Counts shared.Counts `json:"counts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Width != 50 || body.State != "idle" || body.Counts.Immune != 3 {
		t.Errorf("Unexpected status %+v", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}
