package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/threecard/internal/matchid"
	"github.com/lox/threecard/internal/protocol"
	"github.com/lox/threecard/internal/randutil"
	"github.com/lox/threecard/sdk/bots/callingstation"
	"github.com/lox/threecard/sdk/bots/random"
	"github.com/lox/threecard/sdk/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func startTestServer(t *testing.T, rounds int) (*Server, string) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Match.Rounds = rounds
	cfg.Match.Seed = 42

	srv, err := NewServer(cfg, testLogger(), quartz.NewReal())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		ts.Close()
	})
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestServerHealth(t *testing.T) {
	srv, _ := startTestServer(t, 10)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","waiting":false,"matches_started":0,"matches_finished":0}`, w.Body.String())
}

func TestServerPlaysMatch(t *testing.T) {
	srv, url := startTestServer(t, 25)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bots := []*client.Client{
		client.New("calling", callingstation.Handler{}, testLogger()),
		client.New("random", random.NewHandler(randutil.New(1)), testLogger()),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range bots {
		require.NoError(t, c.Connect(ctx, url))
		g.Go(func() error { return c.Run(gctx) })
	}
	require.NoError(t, g.Wait())

	var report MatchReport
	select {
	case report = <-srv.Finished():
	case <-ctx.Done():
		t.Fatal("match report not delivered")
	}

	require.NoError(t, report.Err)
	require.NoError(t, matchid.Validate(report.ID))
	assert.Equal(t, 25, report.Result.Rounds)
	assert.Zero(t, report.Result.Players[0].Bankroll+report.Result.Players[1].Bankroll)
	assert.Zero(t, report.Result.Players[0].Illegal)
	assert.Zero(t, report.Result.Players[1].Illegal)

	total := 0
	for _, c := range bots {
		res := c.Result()
		require.NotNil(t, res)
		assert.Equal(t, 25, res.Rounds)
		assert.Equal(t, report.ID, res.Match)
		total += res.Bankroll
	}
	assert.Zero(t, total)
	assert.Len(t, srv.Reports(), 1)
}

func TestServerRejectsBadHello(t *testing.T) {
	_, url := startTestServer(t, 10)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	payload, err := protocol.Marshal(&protocol.Action{Type: protocol.TypeAction, Action: "fold"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, payload))

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg protocol.Error
	require.NoError(t, protocol.Unmarshal(data, &msg))
	assert.Equal(t, protocol.TypeError, msg.Type)
	assert.Equal(t, "bad_hello", msg.Code)
}

func TestRemoteSeatTimesOut(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Match.Rounds = 10
	cfg.Match.GameClock = "200ms"
	srv, err := NewServer(cfg, testLogger(), quartz.NewReal())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		ts.Close()
	})
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// A raw connection that says hello and then ignores everything.
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	hello, err := protocol.Marshal(&protocol.Hello{Type: protocol.TypeHello, Name: "silent"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, hello))
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Park the silent bot first so it is player a.
	require.Eventually(t, func() bool {
		srv.mu.Lock()
		defer srv.mu.Unlock()
		return srv.waiting != nil
	}, 5*time.Second, 10*time.Millisecond)

	c := client.New("calling", callingstation.Handler{}, testLogger())
	require.NoError(t, c.Connect(ctx, url))
	go func() { _ = c.Run(ctx) }()

	var report MatchReport
	select {
	case report = <-srv.Finished():
	case <-ctx.Done():
		t.Fatal("match did not finish")
	}

	silent := report.Result.Players[0]
	assert.Equal(t, "silent", silent.Name)
	assert.Equal(t, 1, silent.Decisions, "never asked again once the clock is gone")
	assert.Positive(t, silent.Timeouts)
	assert.LessOrEqual(t, silent.ClockLeft, time.Duration(0))
	assert.Equal(t, 10, report.Result.Rounds)
}

func TestStopAbandonsPendingDecision(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Match.Rounds = 10
	srv, err := NewServer(cfg, testLogger(), quartz.NewReal())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// A silent bot that reports the first action request it is sent.
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	hello, err := protocol.Marshal(&protocol.Hello{Type: protocol.TypeHello, Name: "silent"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, hello))
	asked := make(chan struct{})
	go func() {
		var once bool
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msg, err := protocol.Decode(data); err == nil && !once {
				if _, ok := msg.(*protocol.ActionRequest); ok {
					once = true
					close(asked)
				}
			}
		}
	}()

	c := client.New("calling", callingstation.Handler{}, testLogger())
	require.NoError(t, c.Connect(ctx, url))
	go func() { _ = c.Run(ctx) }()

	select {
	case <-asked:
	case <-ctx.Done():
		t.Fatal("silent bot was never asked to act")
	}

	start := time.Now()
	srv.Stop()
	assert.Less(t, time.Since(start), 5*time.Second, "stop waited out the game clock")

	reports := srv.Reports()
	require.Len(t, reports, 1)
	assert.Less(t, reports[0].Result.Rounds, 10)
}
