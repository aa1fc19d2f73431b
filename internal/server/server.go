// Package server hosts heads-up matches between websocket bots. Bots connect
// to /ws, introduce themselves with a hello message and are paired in
// arrival order; each pair plays one match under the configured rules.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/threecard/internal/game"
	"github.com/lox/threecard/internal/matchid"
	"github.com/lox/threecard/internal/protocol"
	"github.com/lox/threecard/internal/randutil"
)

const helloWait = 10 * time.Second

// MatchReport records a finished match
type MatchReport struct {
	ID     string
	Result game.Result
	Err    error
}

// Server represents the dealer's WebSocket server
type Server struct {
	rules    game.Rules
	seed     int64
	upgrader websocket.Upgrader
	logger   *log.Logger
	clock    quartz.Clock
	ids      *matchid.Generator

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	waiting *remoteSeat
	started int
	reports []MatchReport
	notify  chan MatchReport
}

// NewServer creates a dealer from cfg
func NewServer(cfg *Config, logger *log.Logger, clock quartz.Clock) (*Server, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	seed := randutil.Seed(cfg.Match.Seed)

	return &Server{
		rules: rules,
		seed:  seed,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("server"),
		clock:  clock,
		ids:    matchid.NewGenerator(randutil.New(randutil.Derive(seed, -1)), clock),
		ctx:    ctx,
		cancel: cancel,
		notify: make(chan MatchReport, 16),
	}, nil
}

// Handler returns the dealer's HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Serve accepts connections on ln until ctx is cancelled, then waits for
// running matches to stop.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Dealer listening", "addr", ln.Addr().String(), "rounds", s.rules.Rounds, "seed", s.seed)
	err := srv.Serve(ln)
	s.Stop()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop cancels running matches and waits for them to exit
func (s *Server) Stop() {
	s.cancel()

	s.mu.Lock()
	if s.waiting != nil {
		_ = s.waiting.Close()
		s.waiting = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// Reports returns the matches finished so far
func (s *Server) Reports() []MatchReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MatchReport(nil), s.reports...)
}

// Finished delivers each match report as it completes. Reports are dropped
// when nobody is reading.
func (s *Server) Finished() <-chan MatchReport {
	return s.notify
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := struct {
		Status   string `json:"status"`
		Waiting  bool   `json:"waiting"`
		Started  int    `json:"matches_started"`
		Finished int    `json:"matches_finished"`
	}{"ok", s.waiting != nil, s.started, len(s.reports)}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

// handleWebSocket upgrades the connection, reads the bot's hello and seats it
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	name, err := readHello(conn)
	if err != nil {
		s.logger.Warn("Rejected connection", "remote", r.RemoteAddr, "error", err)
		reject(conn, "bad_hello", err.Error())
		return
	}

	seat := newRemoteSeat(name, conn, s.logger, s.clock)
	s.logger.Info("Bot connected", "bot", name, "remote", r.RemoteAddr)
	s.seat(seat)
}

func readHello(conn *websocket.Conn) (string, error) {
	_ = conn.SetReadDeadline(time.Now().Add(helloWait))
	defer conn.SetReadDeadline(time.Time{})

	_, data, err := conn.ReadMessage()
	if err != nil {
		return "", err
	}
	var hello protocol.Hello
	if err := protocol.Unmarshal(data, &hello); err != nil {
		return "", err
	}
	if hello.Type != protocol.TypeHello {
		return "", fmt.Errorf("expected %s, got %q", protocol.TypeHello, hello.Type)
	}
	if hello.Name == "" {
		return "", errors.New("empty bot name")
	}
	return hello.Name, nil
}

func reject(conn *websocket.Conn, code, message string) {
	if payload, err := protocol.Marshal(&protocol.Error{Type: protocol.TypeError, Code: code, Message: message}); err == nil {
		_ = conn.WriteMessage(websocket.BinaryMessage, payload)
	}
	_ = conn.Close()
}

// seat pairs a bot with the waiting one or parks it until the next arrives
func (s *Server) seat(seat *remoteSeat) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		_ = seat.Close()
		return
	}

	if s.waiting != nil {
		select {
		case <-s.waiting.Done():
			s.logger.Info("Waiting bot left", "bot", s.waiting.name)
			s.waiting = nil
		default:
		}
	}

	if s.waiting == nil {
		s.waiting = seat
		return
	}

	a := s.waiting
	s.waiting = nil
	s.started++
	n, id := s.started, s.ids.Next()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runMatch(n, id, a, seat)
	}()
}

// runMatch plays the n-th match of this server between a and b
func (s *Server) runMatch(n int, id string, a, b *remoteSeat) {
	defer a.Close()
	defer b.Close()

	logger := s.logger.With("match", id)
	logger.Info("Match starting", "a", a.name, "b", b.name)

	// A departed bot ends the match at the next round boundary. Shutdown
	// also abandons any decision in flight.
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	a.abort, b.abort = ctx.Done(), ctx.Done()
	go func() {
		select {
		case <-a.Done():
		case <-b.Done():
		case <-ctx.Done():
		}
		cancel()
	}()

	rng := randutil.New(randutil.Derive(s.seed, n))
	m := game.NewMatch(s.rules,
		game.Player{Name: a.name, Handler: a},
		game.Player{Name: b.name, Handler: b},
		rng, game.WithClock(s.clock), game.WithLogger(logger))

	res, err := m.Run(ctx)
	if err != nil {
		logger.Warn("Match ended early", "error", err, "rounds", res.Rounds)
	}

	for i, seat := range []*remoteSeat{a, b} {
		over := &protocol.GameOver{
			Type:     protocol.TypeGameOver,
			Match:    id,
			Rounds:   res.Rounds,
			Bankroll: res.Players[i].Bankroll,
			Opponent: res.Players[1-i].Name,
		}
		if err := seat.send(over); err != nil && !errors.Is(err, errSeatClosed) {
			logger.Warn("Failed to send game over", "bot", seat.name, "error", err)
		}
	}

	report := MatchReport{ID: id, Result: res, Err: err}
	s.mu.Lock()
	s.reports = append(s.reports, report)
	s.mu.Unlock()

	select {
	case s.notify <- report:
	default:
	}
}
