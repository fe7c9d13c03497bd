package realtime

import (
	"context"
	"encoding/json"
)

type ConnectionState string

const (
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateDisconnected ConnectionState = "disconnected"
	StateError        ConnectionState = "error"
)

// Message is one named event delivered on a pub/sub topic.
type Message struct {
	Channel string
	Event   string
	Data    json.RawMessage
}

// Transport is a pub/sub connection. Implementations deliver messages from a
// single goroutine, in the order the server sent them.
type Transport interface {
	Connect(ctx context.Context) error
	Subscribe(channel string) error
	Unsubscribe(channel string) error
	Disconnect() error

	OnMessage(func(Message))
	OnStateChange(func(ConnectionState))
}
