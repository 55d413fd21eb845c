package supervisor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/arcbridge/venuearb/business/venue/domain"
	"github.com/arcbridge/venuearb/internal/logger"
	"github.com/arcbridge/venuearb/internal/wsconn"
)

func mockWSServer(t *testing.T, handler func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		if handler != nil {
			handler(conn)
		}
	}))
}

func testConfig(url string) Config {
	return Config{
		Name:             "test.venue",
		URL:              url,
		BaseBackoff:      10 * time.Millisecond,
		MaxBackoff:       50 * time.Millisecond,
		LivenessTimeout:  2 * time.Second,
		RotationInterval: time.Hour,
		DisconnectWindow: time.Minute,
		DisconnectLimit:  10,
		CircuitPause:     time.Minute,
	}
}

func TestSupervisor_DeliversFramesAndReachesConnected(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		ctx := context.Background()
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"e":"depthUpdate"}`))
		time.Sleep(200 * time.Millisecond)
	})
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	sup := New(testConfig(wsURL), logger.Discard())

	var mu sync.Mutex
	var frames [][]byte
	sup.OnFrame(func(ctx context.Context, raw []byte) {
		mu.Lock()
		frames = append(frames, raw)
		mu.Unlock()
	})

	var states []domain.SessionState
	sup.OnStateChange(func(change domain.SessionStateChange) {
		mu.Lock()
		states = append(states, change.To)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_ = sup.Run(ctx)

	mu.Lock()
	defer mu.Unlock()
	if len(frames) == 0 {
		t.Fatal("expected at least one frame delivered")
	}
	foundConnected := false
	for _, s := range states {
		if s == domain.SessionConnected {
			foundConnected = true
		}
	}
	if !foundConnected {
		t.Errorf("expected session to reach Connected, states were %v", states)
	}
}

func TestSupervisor_InvokesOnConnectedBeforeFrames(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		ctx := context.Background()
		_ = conn.Write(ctx, websocket.MessageText, []byte(`{"topic":"orderbook.1.BTCUSDT","type":"snapshot"}`))
		time.Sleep(200 * time.Millisecond)
	})
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	sup := New(testConfig(wsURL), logger.Discard())

	var mu sync.Mutex
	connectedCalls := 0
	sup.OnConnected(func(ctx context.Context, client *wsconn.Client) error {
		mu.Lock()
		connectedCalls++
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_ = sup.Run(ctx)

	mu.Lock()
	defer mu.Unlock()
	if connectedCalls == 0 {
		t.Error("expected OnConnected handler to be invoked at least once")
	}
}

func TestBackoffDuration_DoublesPerConsecutiveFailure(t *testing.T) {
	base := 10 * time.Millisecond
	max := time.Second

	cases := []struct {
		n    int
		want time.Duration
	}{
		{0, base},
		{1, base * 2},
		{2, base * 4},
		{3, base * 8},
	}
	for _, c := range cases {
		if got := backoffDuration(base, max, c.n); got != c.want {
			t.Errorf("backoffDuration(base, max, %d) = %s, want %s", c.n, got, c.want)
		}
	}
}

func TestBackoffDuration_CapsAtMax(t *testing.T) {
	got := backoffDuration(10*time.Millisecond, 50*time.Millisecond, 10)
	if got != 50*time.Millisecond {
		t.Errorf("backoffDuration = %s, want capped at 50ms", got)
	}
}

func TestSupervisor_TripsCircuitAndClearsRingOnWindowLimit(t *testing.T) {
	cfg := testConfig("ws://127.0.0.1:1") // nothing listening; every attempt fails
	cfg.DisconnectLimit = 2
	cfg.DisconnectWindow = time.Second
	// The pause outlasts the run, so the run ends inside the pause that
	// follows the first trip; the 2s run leaves room for the up-to-500ms
	// jitter added to the backoff between the two failed attempts.
	cfg.CircuitPause = time.Minute
	cfg.BaseBackoff = 1 * time.Millisecond
	cfg.MaxBackoff = 2 * time.Millisecond
	sup := New(cfg, logger.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = sup.Run(ctx)

	if sup.DisconnectCount() != 0 {
		t.Errorf("expected the disconnect ring to be cleared after a circuit trip, got %d entries", sup.DisconnectCount())
	}
}

func TestSupervisor_RetriesOnConnectFailure(t *testing.T) {
	cfg := testConfig("ws://127.0.0.1:1") // nothing listening
	sup := New(cfg, logger.Discard())

	var mu sync.Mutex
	var states []domain.SessionState
	sup.OnStateChange(func(change domain.SessionStateChange) {
		mu.Lock()
		states = append(states, change.To)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_ = sup.Run(ctx)

	mu.Lock()
	defer mu.Unlock()
	foundReconnecting := false
	for _, s := range states {
		if s == domain.SessionReconnecting {
			foundReconnecting = true
		}
	}
	if !foundReconnecting {
		t.Errorf("expected at least one Reconnecting transition, states were %v", states)
	}
}
