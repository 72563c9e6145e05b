package core

import (
	"errors"

	"github.com/dkeye/Lingo/internal/domain"
)

// Frame is a serialized payload ready to be written to a socket.
type Frame []byte

// SessionID identifies one live socket. A fresh id is minted per connection.
type SessionID string

var (
	ErrConnClosed   = errors.New("connection closed")
	ErrBackpressure = errors.New("backpressure")
)

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues f without blocking. It returns ErrConnClosed once the
	// transport left the open state and ErrBackpressure when the queue is full.
	TrySend(f Frame) error
	IsOpen() bool
	Close()
}

// MemberSession binds domain.Member and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	ID() SessionID
	Meta() *domain.Member
	Signal() SignalConnection
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Skipped int
	Dropped []MemberSession
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	SID      SessionID     `json:"sid"`
	UserID   domain.UserID `json:"userId,omitempty"`
	Username string        `json:"username,omitempty"`
}

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"memberCount"`
}

// Broadcaster is the seam the REST layer uses to reach connected sockets.
type Broadcaster interface {
	BroadcastToRoom(room domain.RoomID, payload any) (PublishResult, error)
}
