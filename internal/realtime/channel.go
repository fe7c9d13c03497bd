package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/humanbelnik/kinoswap/matchclient/internal/liveness"
	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
)

const DefaultGraceDelay = time.Second

type Handler func(payload json.RawMessage)

type SubscriptionID string

type subscription struct {
	id SubscriptionID
	fn Handler
}

type Options struct {
	// GraceDelay is how long the channel waits after session-ended or
	// session-cleanup before tearing itself down.
	GraceDelay    time.Duration
	Logger        *slog.Logger
	OnEvent       func(model.EventName)
	OnStateChange func(ConnectionState)
}

// Channel listens to the topic of one matching session at a time and fans
// its events out to subscribed handlers.
type Channel struct {
	transport Transport
	grace     time.Duration
	logger    *slog.Logger
	onEvent   func(model.EventName)
	onState   func(ConnectionState)

	mu         sync.Mutex
	handlers   map[model.EventName][]subscription
	sessionID  model.ID
	topic      string
	token      *liveness.Token
	graceTimer *time.Timer
	closed     bool

	connected atomic.Bool
	closeOnce sync.Once
}

func New(transport Transport, opts Options) *Channel {
	if opts.GraceDelay <= 0 {
		opts.GraceDelay = DefaultGraceDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Channel{
		transport: transport,
		grace:     opts.GraceDelay,
		logger:    opts.Logger,
		onEvent:   opts.OnEvent,
		onState:   opts.OnStateChange,
		handlers:  make(map[model.EventName][]subscription),
	}

	transport.OnMessage(c.dispatch)
	transport.OnStateChange(c.handleState)
	return c
}

// Subscribe registers h for event. Handlers of one event run in registration
// order.
func (c *Channel) Subscribe(event model.EventName, h Handler) SubscriptionID {
	id := SubscriptionID(uuid.NewString())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], subscription{id: id, fn: h})
	return id
}

func (c *Channel) Unsubscribe(id SubscriptionID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for event, subs := range c.handlers {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			c.handlers[event] = append(subs[:i:i], subs[i+1:]...)
			if len(c.handlers[event]) == 0 {
				delete(c.handlers, event)
			}
			return true
		}
	}
	return false
}

func (c *Channel) UnsubscribeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = make(map[model.EventName][]subscription)
}

// Open connects and subscribes to the topic of sessionID. An empty id is a
// no-op. Opening another session first tears the current one down.
func (c *Channel) Open(ctx context.Context, sessionID model.ID) error {
	if sessionID.IsEmpty() {
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.sessionID == sessionID && c.token.Alive() {
		c.mu.Unlock()
		return nil
	}

	prevTopic := c.detachLocked()
	token := liveness.New()
	topic := model.ChannelName(sessionID)
	c.sessionID = sessionID
	c.topic = topic
	c.token = token
	c.mu.Unlock()

	if prevTopic != "" {
		c.release(prevTopic)
	}

	if err := c.transport.Connect(ctx); err != nil {
		c.logger.Warn("realtime connect failed", "session_id", sessionID, "error", err)
		return err
	}
	if !token.Alive() {
		_ = c.transport.Disconnect()
		return ErrClosed
	}
	if err := c.transport.Subscribe(topic); err != nil {
		c.logger.Warn("realtime subscribe failed", "channel", topic, "error", err)
		return err
	}

	c.logger.Info("realtime subscribed", "channel", topic)
	return nil
}

func (c *Channel) SessionID() model.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// IsConnected is advisory only.
func (c *Channel) IsConnected() bool {
	return c.connected.Load()
}

// Close unbinds every handler, leaves the topic and disconnects. It is safe
// to call any number of times, from any goroutine.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		topic := c.detachLocked()
		c.handlers = make(map[model.EventName][]subscription)
		c.mu.Unlock()

		c.connected.Store(false)
		c.release(topic)
		c.logger.Info("realtime channel closed", "channel", topic)
	})
	c.connected.Store(false)
	return nil
}

// detachLocked kills the current liveness token and returns the topic that
// still has to be released.
func (c *Channel) detachLocked() string {
	topic := c.topic
	if c.token != nil {
		c.token.Kill()
	}
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
	c.topic = ""
	c.sessionID = model.EmptyID
	return topic
}

func (c *Channel) release(topic string) {
	if topic != "" {
		if err := c.transport.Unsubscribe(topic); err != nil {
			c.logger.Debug("realtime unsubscribe skipped", "channel", topic, "error", err)
		}
	}
	if err := c.transport.Disconnect(); err != nil {
		c.logger.Debug("realtime disconnect failed", "error", err)
	}
}

func (c *Channel) dispatch(msg Message) {
	name := model.EventName(msg.Event)
	if !name.IsKnown() {
		return
	}

	c.mu.Lock()
	token := c.token
	if msg.Channel != c.topic || !token.Alive() {
		c.mu.Unlock()
		return
	}
	subs := append([]subscription(nil), c.handlers[name]...)
	if name.Terminates() {
		c.scheduleTeardownLocked(token)
	}
	c.mu.Unlock()

	c.logger.Debug("realtime event", "event", name, "channel", msg.Channel)
	if c.onEvent != nil {
		c.onEvent(name)
	}

	for _, s := range subs {
		if !token.Alive() {
			return
		}
		s.fn(msg.Data)
	}
}

func (c *Channel) scheduleTeardownLocked(token *liveness.Token) {
	if c.graceTimer != nil {
		return
	}
	c.graceTimer = time.AfterFunc(c.grace, func() {
		if token.Alive() {
			_ = c.Close()
		}
	})
}

func (c *Channel) handleState(state ConnectionState) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	c.connected.Store(state == StateConnected && !closed)
	c.logger.Debug("realtime state change", "state", state)
	if c.onState != nil {
		c.onState(state)
	}
}
