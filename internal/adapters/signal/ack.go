package signal

import (
	"encoding/json"
	"time"

	"github.com/dkeye/Lingo/internal/core"
)

const (
	msgReceived    = "Message received successfully"
	msgInvalidJSON = "Invalid JSON format"
	msgInvalidAuth = "Invalid token"
	msgRateLimited = "Rate limit exceeded"
)

type echoAck struct {
	Type         core.EventType  `json:"type"`
	Message      string          `json:"message"`
	ReceivedData json.RawMessage `json:"receivedData"`
	Dropped      string          `json:"dropped,omitempty"`
	Timestamp    string          `json:"timestamp"`
}

func newEchoAck(frame []byte, at time.Time) echoAck {
	return echoAck{
		Type:         core.EventEcho,
		Message:      msgReceived,
		ReceivedData: json.RawMessage(frame),
		Timestamp:    core.Timestamp(at),
	}
}

type errorAck struct {
	Type      core.EventType `json:"type"`
	Message   string         `json:"message"`
	Error     string         `json:"error,omitempty"`
	Timestamp string         `json:"timestamp"`
}

func newErrorAck(message, detail string, at time.Time) errorAck {
	return errorAck{
		Type:      core.EventError,
		Message:   message,
		Error:     detail,
		Timestamp: core.Timestamp(at),
	}
}
