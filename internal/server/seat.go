package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/threecard/internal/protocol"
	"github.com/lox/threecard/sdk"
)

var (
	errSeatClosed      = errors.New("bot disconnected")
	errDecisionTimeout = errors.New("decision timeout")
	errMatchAborted    = errors.New("match aborted")
)

const writeWait = 10 * time.Second

// remoteSeat adapts a websocket bot to sdk.Handler so a game.Match can
// drive it like an in-process bot.
type remoteSeat struct {
	name   string
	conn   *websocket.Conn
	logger *log.Logger
	clock  quartz.Clock

	frames chan []byte
	abort  <-chan struct{} // closed when the match is cancelled
	done   chan struct{}   // closed when the read loop exits
	closed chan struct{}   // closed by Close
	once   sync.Once

	writeMu sync.Mutex
}

func newRemoteSeat(name string, conn *websocket.Conn, logger *log.Logger, clock quartz.Clock) *remoteSeat {
	s := &remoteSeat{
		name:   name,
		conn:   conn,
		logger: logger.With("bot", name),
		clock:  clock,
		frames: make(chan []byte, 4),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *remoteSeat) readLoop() {
	defer close(s.done)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("Read error", "error", err)
			}
			return
		}
		select {
		case s.frames <- data:
		case <-s.closed:
			return
		}
	}
}

// Done is closed once the bot has disconnected.
func (s *remoteSeat) Done() <-chan struct{} {
	return s.done
}

// Close says goodbye and drops the connection.
func (s *remoteSeat) Close() error {
	var err error
	s.once.Do(func() {
		close(s.closed)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}

func (s *remoteSeat) send(msg any) error {
	select {
	case <-s.done:
		return errSeatClosed
	default:
	}

	payload, err := protocol.Marshal(msg)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.BinaryMessage, payload)
}

func (s *remoteSeat) OnRoundStart(start sdk.RoundStart) error {
	return s.send(protocol.NewRoundStart(start))
}

func (s *remoteSeat) OnRoundOver(result sdk.RoundResult) error {
	return s.send(protocol.NewRoundOver(result))
}

// OnActionRequest sends the request and waits for the matching answer for
// at most the bot's remaining game clock.
func (s *remoteSeat) OnActionRequest(view sdk.RoundView) (sdk.Action, error) {
	if err := s.send(protocol.NewActionRequest(view)); err != nil {
		return nil, err
	}

	timeoutFired := make(chan struct{})
	timer := s.clock.AfterFunc(view.GameClock, func() {
		close(timeoutFired)
	})
	defer timer.Stop()

	for {
		select {
		case data := <-s.frames:
			msg, err := protocol.Decode(data)
			if err != nil {
				s.logger.Warn("Bad frame", "error", err)
				continue
			}
			act, ok := msg.(*protocol.Action)
			if !ok {
				s.logger.Debug("Ignoring message while waiting for action", "type", fmt.Sprintf("%T", msg))
				continue
			}
			if act.Round != view.Round {
				s.logger.Debug("Dropping stale action", "round", act.Round, "want", view.Round)
				continue
			}
			return act.ToSDK(view.Bounds)

		case <-s.done:
			return nil, errSeatClosed

		case <-s.abort:
			return nil, errMatchAborted

		case <-timeoutFired:
			return nil, errDecisionTimeout
		}
	}
}

var _ sdk.Handler = (*remoteSeat)(nil)
