// Package client connects an sdk.Handler to a threecard dealer over
// websocket and plays until the dealer ends the game.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/threecard/internal/protocol"
	"github.com/lox/threecard/sdk"
)

// ErrNotConnected is returned by Run before Connect has succeeded.
var ErrNotConnected = errors.New("not connected")

// DefaultReadTimeout bounds the wait for the next dealer message.
const DefaultReadTimeout = 2 * time.Minute

// Client runs a bot handler against a dealer
type Client struct {
	id          string
	conn        *websocket.Conn
	logger      *log.Logger
	handler     sdk.Handler
	readTimeout time.Duration

	mu     sync.Mutex
	result *protocol.GameOver
}

// New creates a client for handler. A nil logger discards output.
func New(id string, handler sdk.Handler, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		id:          id,
		logger:      logger.With("bot_id", id),
		handler:     handler,
		readTimeout: DefaultReadTimeout,
	}
}

// SetReadTimeout changes how long Run waits for a dealer message.
func (c *Client) SetReadTimeout(d time.Duration) {
	c.readTimeout = d
}

// ID returns the bot's ID
func (c *Client) ID() string {
	return c.id
}

// Result returns the final message of a completed game, or nil.
func (c *Client) Result() *protocol.GameOver {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Connect dials the dealer and introduces the bot.
func (c *Client) Connect(ctx context.Context, serverURL string) error {
	u, err := url.Parse(serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	// Ensure WebSocket scheme
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		u.Scheme = "ws"
	}

	c.logger.Debug("Connecting to dealer", "url", u.String())
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn

	if err := c.send(&protocol.Hello{Type: protocol.TypeHello, Name: c.id}); err != nil {
		conn.Close()
		c.conn = nil
		return fmt.Errorf("send hello: %w", err)
	}
	return nil
}

// Run reads dealer messages until the game is over, the connection closes
// or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	defer c.conn.Close()

	// Unblock the pending read on cancellation.
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if msgType != websocket.BinaryMessage && msgType != websocket.TextMessage {
			continue
		}

		if err := c.handle(data); err != nil {
			if errors.Is(err, io.EOF) {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}
			c.logger.Error("Message error", "error", err)
		}
	}
}

// handle dispatches one frame. It returns io.EOF once the game is over.
func (c *Client) handle(data []byte) error {
	msg, err := protocol.Decode(data)
	if err != nil {
		return err
	}

	switch m := msg.(type) {
	case *protocol.RoundStart:
		start, err := m.ToSDK()
		if err != nil {
			return err
		}
		if err := c.handler.OnRoundStart(start); err != nil {
			c.logger.Error("OnRoundStart error", "error", err)
		}

	case *protocol.ActionRequest:
		return c.answer(m)

	case *protocol.RoundOver:
		result, err := m.ToSDK()
		if err != nil {
			return err
		}
		if err := c.handler.OnRoundOver(result); err != nil {
			c.logger.Error("OnRoundOver error", "error", err)
		}

	case *protocol.GameOver:
		c.mu.Lock()
		c.result = m
		c.mu.Unlock()
		c.logger.Info("Game over", "rounds", m.Rounds, "bankroll", m.Bankroll, "opponent", m.Opponent)
		return io.EOF

	case *protocol.Error:
		c.logger.Warn("Dealer error", "code", m.Code, "message", m.Message)

	default:
		c.logger.Debug("Ignoring message", "type", fmt.Sprintf("%T", m))
	}
	return nil
}

func (c *Client) answer(req *protocol.ActionRequest) error {
	view, err := req.ToSDK()
	if err != nil {
		return err
	}

	action, err := c.handler.OnActionRequest(view)
	if err != nil {
		c.logger.Error("OnActionRequest error", "error", err)
		action = sdk.Passive(view.Legal)
	}
	if action == nil {
		action = sdk.Passive(view.Legal)
	}

	if err := c.send(protocol.NewAction(req.Round, action)); err != nil {
		return fmt.Errorf("send action: %w", err)
	}
	return nil
}

func (c *Client) send(msg any) error {
	payload, err := protocol.Marshal(msg)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, payload)
}
