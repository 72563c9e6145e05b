package app

import (
	"strings"

	"github.com/dkeye/Lingo/internal/core"
	"github.com/dkeye/Lingo/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	Disconnect
)

// Policy decides what happens to a member whose send queue was full during a broadcast.
type Policy interface {
	OnBackPressure(room domain.RoomID, member core.MemberSession) BackpressureAction
}

// DropPolicy loses the frame for that member and keeps the socket.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.RoomID, core.MemberSession) BackpressureAction {
	return DropFrame
}

// DisconnectPolicy closes slow sockets; the lifecycle handler then removes them from the room.
type DisconnectPolicy struct{}

func (DisconnectPolicy) OnBackPressure(domain.RoomID, core.MemberSession) BackpressureAction {
	return Disconnect
}

// PolicyFor maps the slow_consumer config value to a Policy. Unknown values fall back to drop.
func PolicyFor(name string) Policy {
	switch strings.ToLower(name) {
	case "disconnect", "kick":
		return DisconnectPolicy{}
	default:
		return DropPolicy{}
	}
}
