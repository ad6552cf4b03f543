package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claireundgeorge/accessible-site/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubReconnectAndOrdering(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := VisitorChannel("visitor-a")

	clientA := hub.NewSSEClient("visitor-a")
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventPersonaTransitionStarted})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventPersonaTransitionStep})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventPersonaTransitionStarted {
		t.Fatalf("first event: want=%s got=%s", SSEEventPersonaTransitionStarted, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventPersonaTransitionStep {
		t.Fatalf("second event: want=%s got=%s", SSEEventPersonaTransitionStep, got.Event)
	}

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	if n := hub.Subscribers(channel); n != 0 {
		t.Fatalf("subscribers after close: want=0 got=%d", n)
	}

	clientB := hub.NewSSEClient("visitor-a")
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventPersonaCommitted})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventPersonaCommitted {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventPersonaCommitted, got.Event)
	}
}

func TestSSEHubIsolatesVisitors(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	a := hub.NewSSEClient("a")
	b := hub.NewSSEClient("b")
	hub.AddChannel(a, VisitorChannel("a"))
	hub.AddChannel(b, VisitorChannel("b"))

	hub.Broadcast(SSEMessage{Channel: VisitorChannel("a"), Event: SSEEventPersonaReset})
	recvMessage(t, a.Outbound, time.Second)
	select {
	case m := <-b.Outbound:
		t.Fatalf("visitor b received %s", m.Event)
	default:
	}
}

func TestSSEHubServeHTTPWritesEvents(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient("v")
	hub.AddChannel(client, VisitorChannel("v"))

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/api/persona/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		hub.ServeHTTP(rec, req, client)
		close(done)
	}()

	hub.Broadcast(SSEMessage{Channel: VisitorChannel("v"), Event: SSEEventPersonaCommitted, Data: map[string]any{"category": "wheelchair"}})
	// The stream drains Outbound; wait until the buffer is empty.
	deadline := time.Now().Add(time.Second)
	for len(client.Outbound) > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: PersonaCommitted") || !strings.Contains(body, `"category":"wheelchair"`) {
		t.Fatalf("stream body: got=%q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: got=%q", ct)
	}
}

func TestSSEHubCloseAll(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	a := hub.NewSSEClient("a")
	b := hub.NewSSEClient("b")
	hub.AddChannel(a, VisitorChannel("a"))
	hub.AddChannel(b, VisitorChannel("b"))

	hub.CloseAll()
	for _, c := range []*SSEClient{a, b} {
		if _, ok := <-c.Outbound; ok {
			t.Fatalf("client %s outbound still open", c.VisitorID)
		}
	}
	if n := hub.Subscribers(VisitorChannel("a")) + hub.Subscribers(VisitorChannel("b")); n != 0 {
		t.Fatalf("subscribers after CloseAll: want=0 got=%d", n)
	}
	// The stream handler's deferred close must still be safe.
	hub.CloseClient(a)
}
