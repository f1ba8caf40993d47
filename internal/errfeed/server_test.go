package errfeed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/smartap-inspector/internal/eventbus"
	"github.com/muurk/smartap-inspector/internal/metrics"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, chan Signal) {
	t.Helper()
	signals := make(chan Signal, 8)
	m := metrics.New()
	s := New(Config{Metrics: m}, func(sig Signal) { signals <- sig })
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts, signals
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, data string) Message {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(data)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	return read(t, conn)
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var reply Message
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return reply
}

func TestServer_ForwardsSignals(t *testing.T) {
	_, ts, signals := newTestServer(t)
	conn := dial(t, ts)

	reply := send(t, conn, `{"type":"setErrors","errors":{"wifi.ssid":"Unknown network"}}`)
	if reply.Type != TypeAck {
		t.Fatalf("reply = %+v, want ack", reply)
	}

	select {
	case sig := <-signals:
		if sig.Event != eventbus.SetErrorsEvent {
			t.Errorf("signal event = %v, want %v", sig.Event, eventbus.SetErrorsEvent)
		}
		payload := sig.Payload.(eventbus.SetErrors)
		if payload.Errors["wifi.ssid"] != "Unknown network" {
			t.Errorf("signal errors = %v", payload.Errors)
		}
	default:
		t.Fatal("sink not called before ack")
	}

	send(t, conn, `{"type":"showEntry","id":"server.dns"}`)
	if sig := <-signals; sig.Payload != (eventbus.ShowEntry{ID: "server.dns"}) {
		t.Errorf("signal payload = %v", sig.Payload)
	}
}

func TestServer_RejectsUnknownTypes(t *testing.T) {
	_, ts, signals := newTestServer(t)
	conn := dial(t, ts)

	reply := send(t, conn, `{"type":"reboot"}`)
	if reply.Type != TypeError || !strings.Contains(reply.Error, "unknown message type") {
		t.Errorf("reply = %+v, want unknown type error", reply)
	}
	select {
	case sig := <-signals:
		t.Errorf("sink called with %+v for rejected message", sig)
	default:
	}

	// The connection stays usable.
	if reply := send(t, conn, `{"type":"setErrors"}`); reply.Type != TypeAck {
		t.Errorf("reply after rejection = %+v, want ack", reply)
	}
}

func TestServer_Broadcast(t *testing.T) {
	s, ts, _ := newTestServer(t)
	a := dial(t, ts)
	b := dial(t, ts)

	deadline := time.Now().Add(2 * time.Second)
	for s.Clients() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.Clients() != 2 {
		t.Fatalf("Clients() = %d, want 2", s.Clients())
	}

	s.Broadcast(CommitMessage("server.port", "443"))

	for _, conn := range []*websocket.Conn{a, b} {
		msg := read(t, conn)
		if msg.Type != TypeCommit || msg.ID != "server.port" || msg.Value != "443" {
			t.Errorf("broadcast = %+v, want commit of server.port", msg)
		}
	}
}

func TestServer_Health(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Status  string `json:"status"`
		Clients int    `json:"clients"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if body.Status != "ok" || body.Clients != 0 {
		t.Errorf("/healthz = %+v", body)
	}
}

func TestServer_Metrics(t *testing.T) {
	_, ts, signals := newTestServer(t)
	conn := dial(t, ts)
	send(t, conn, `{"type":"setErrors"}`)
	send(t, conn, `{"type":"bogus"}`)
	<-signals

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, _ := io.ReadAll(resp.Body)
	body := string(data)

	for _, want := range []string{
		`smartap_inspect_errfeed_messages_total{status="ok",type="setErrors"} 1`,
		`smartap_inspect_errfeed_messages_total{status="rejected",type="unknown"} 1`,
		`smartap_inspect_errfeed_clients 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("/metrics missing %q", want)
		}
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0"}, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	_ = resp.Body.Close()

	url := "ws://" + s.Addr() + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection still open after Shutdown()")
	}
}

func TestServer_NoMetricsRoute(t *testing.T) {
	s := New(Config{}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics without registry = %d, want 404", rec.Code)
	}
	if s.Addr() != DefaultAddr {
		t.Errorf("Addr() = %v, want %v", s.Addr(), DefaultAddr)
	}
}
