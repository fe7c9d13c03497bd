package pusher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/humanbelnik/kinoswap/matchclient/internal/realtime"
)

var (
	ErrNotConnected  = errors.New("pusher: not connected")
	ErrHandshake     = errors.New("pusher: handshake failed")
	ErrAlreadyActive = errors.New("pusher: already connected")
)

const (
	clientName       = "go"
	clientVersion    = "1.0"
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
	defaultActivity  = 120 * time.Second
)

type Config struct {
	Key     string
	Cluster string
	// Host overrides ws-<cluster>.pusher.com, e.g. for a self-hosted server.
	Host     string
	Insecure bool
}

func (c Config) URL() string {
	host := c.Host
	if host == "" {
		host = fmt.Sprintf("ws-%s.pusher.com", c.Cluster)
	}
	scheme := "wss"
	if c.Insecure {
		scheme = "ws"
	}

	q := url.Values{}
	q.Set("protocol", protocolVersion)
	q.Set("client", clientName)
	q.Set("version", clientVersion)

	u := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     "/app/" + c.Key,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Client speaks the Pusher Channels websocket protocol. One Client holds at
// most one socket; Connect after Disconnect opens a fresh one.
type Client struct {
	cfg    Config
	dialer *websocket.Dialer
	logger *slog.Logger

	mu       sync.Mutex
	conn     *websocket.Conn
	socketID string
	done     chan struct{}
	closing  bool

	handlersMu sync.RWMutex
	onMessage  func(realtime.Message)
	onState    func(realtime.ConnectionState)
}

func New(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
		logger: slog.Default(),
	}
}

func (c *Client) OnMessage(fn func(realtime.Message)) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.onMessage = fn
}

func (c *Client) OnStateChange(fn func(realtime.ConnectionState)) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.onState = fn
}

func (c *Client) SocketID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.socketID
}

func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return ErrAlreadyActive
	}
	c.mu.Unlock()

	c.emitState(realtime.StateConnecting)

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL(), nil)
	if err != nil {
		c.logger.Error("pusher dial failed", "error", err)
		c.emitState(realtime.StateError)
		return err
	}

	established, err := c.handshake(conn)
	if err != nil {
		_ = conn.Close()
		c.logger.Error("pusher handshake failed", "error", err)
		c.emitState(realtime.StateError)
		return errors.Join(ErrHandshake, err)
	}

	activity := time.Duration(established.ActivityTimeout) * time.Second
	if activity <= 0 {
		activity = defaultActivity
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.conn = conn
	c.socketID = established.SocketID
	c.done = done
	c.closing = false
	c.mu.Unlock()

	c.logger.Info("pusher connected", "socket_id", established.SocketID)
	c.emitState(realtime.StateConnected)

	go c.readLoop(conn, done)
	go c.keepAlive(done, activity)

	return nil
}

func (c *Client) handshake(conn *websocket.Conn) (connectionEstablished, error) {
	var established connectionEstablished

	if err := conn.SetReadDeadline(time.Now().Add(handshakeTimeout)); err != nil {
		return established, err
	}
	defer func() { _ = conn.SetReadDeadline(time.Time{}) }()

	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		return established, err
	}

	switch env.Event {
	case eventConnectionEstablished:
		if err := json.Unmarshal(env.payload(), &established); err != nil {
			return established, err
		}
		return established, nil
	case eventError:
		var perr protocolError
		_ = json.Unmarshal(env.payload(), &perr)
		return established, fmt.Errorf("code %d: %s", perr.Code, perr.Message)
	default:
		return established, fmt.Errorf("unexpected first event %q", env.Event)
	}
}

func (c *Client) Subscribe(channel string) error {
	return c.send(eventSubscribe, subscription{Channel: channel})
}

func (c *Client) Unsubscribe(channel string) error {
	return c.send(eventUnsubscribe, subscription{Channel: channel})
}

// Disconnect is idempotent; calling it without a connection is a no-op.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return nil
	}
	c.closing = true
	c.conn = nil
	c.socketID = ""
	close(c.done)

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := conn.Close()
	c.mu.Unlock()

	c.emitState(realtime.StateDisconnected)
	return err
}

func (c *Client) send(event string, data any) error {
	msg, err := encode(event, data)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			c.handleReadError(conn, done, err)
			return
		}

		switch env.Event {
		case eventPing:
			if err := c.send(eventPong, struct{}{}); err != nil {
				c.logger.Warn("pusher pong failed", "error", err)
			}
		case eventPong, eventConnectionEstablished:
		case eventSubscriptionSucceeded:
			c.logger.Debug("pusher subscribed", "channel", env.Channel)
		case eventError:
			var perr protocolError
			_ = json.Unmarshal(env.payload(), &perr)
			c.logger.Error("pusher error", "code", perr.Code, "message", perr.Message)
			c.emitState(realtime.StateError)
		default:
			if env.Channel == "" {
				continue
			}
			c.emitMessage(realtime.Message{
				Channel: env.Channel,
				Event:   env.Event,
				Data:    env.payload(),
			})
		}
	}
}

func (c *Client) handleReadError(conn *websocket.Conn, done chan struct{}, err error) {
	c.mu.Lock()
	intentional := c.closing || c.conn != conn
	if !intentional {
		c.conn = nil
		c.socketID = ""
		close(done)
	}
	c.mu.Unlock()

	if intentional {
		return
	}

	_ = conn.Close()
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.logger.Info("pusher connection closed by server")
		c.emitState(realtime.StateDisconnected)
		return
	}
	c.logger.Error("pusher read failed", "error", err)
	c.emitState(realtime.StateError)
	c.emitState(realtime.StateDisconnected)
}

func (c *Client) keepAlive(done chan struct{}, activity time.Duration) {
	ticker := time.NewTicker(activity)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.send(eventPing, struct{}{}); err != nil && !errors.Is(err, ErrNotConnected) {
				c.logger.Warn("pusher ping failed", "error", err)
			}
		}
	}
}

func (c *Client) emitMessage(msg realtime.Message) {
	c.handlersMu.RLock()
	fn := c.onMessage
	c.handlersMu.RUnlock()
	if fn != nil {
		fn(msg)
	}
}

func (c *Client) emitState(state realtime.ConnectionState) {
	c.handlersMu.RLock()
	fn := c.onState
	c.handlersMu.RUnlock()
	if fn != nil {
		fn(state)
	}
}
