package pusher

import (
	"bytes"
	"encoding/json"
)

// Pusher Channels protocol v7 event names.
const (
	eventConnectionEstablished = "pusher:connection_established"
	eventError                 = "pusher:error"
	eventPing                  = "pusher:ping"
	eventPong                  = "pusher:pong"
	eventSubscribe             = "pusher:subscribe"
	eventUnsubscribe           = "pusher:unsubscribe"
	eventSubscriptionSucceeded = "pusher_internal:subscription_succeeded"
)

const protocolVersion = "7"

type envelope struct {
	Event   string          `json:"event"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type connectionEstablished struct {
	SocketID        string `json:"socket_id"`
	ActivityTimeout int    `json:"activity_timeout"`
}

type protocolError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type subscription struct {
	Channel string `json:"channel"`
}

// payload unwraps data: servers send it as a JSON-encoded string.
func (e envelope) payload() json.RawMessage {
	data := bytes.TrimSpace(e.Data)
	if len(data) == 0 || data[0] != '"' {
		return data
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return data
	}
	return json.RawMessage(s)
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: event, Data: raw})
}
