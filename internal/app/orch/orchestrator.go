package orch

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/Lingo/internal/app"
	"github.com/dkeye/Lingo/internal/core"
	"github.com/dkeye/Lingo/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Orchestrator owns the registry and the room index and keeps them consistent.
// Membership changes and fan-outs are serialized on mu, so within one room every
// member sees broadcasts in the order they were dispatched.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    *core.RoomIndex
	Policy   app.Policy
	Now      func() time.Time

	mu sync.Mutex
}

func New(reg *app.Registry, rooms *core.RoomIndex, policy app.Policy) *Orchestrator {
	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Policy:   policy,
		Now:      time.Now,
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// OnConnect registers a new connection with no room.
func (o *Orchestrator) OnConnect(sess core.MemberSession, cancel context.CancelFunc) {
	o.Registry.Bind(sess, cancel)
	metrics.Connections.Inc()
	log.Info().Str("module", "app.orch").Str("sid", string(sess.ID())).Str("client", clientOf(sess)).Msg("connected")
}

// clientOf is the browser token behind a session, empty when unknown.
func clientOf(sess core.MemberSession) string {
	if m := sess.Meta(); m != nil {
		return m.ClientToken
	}
	return ""
}

// OnDisconnect removes sid from the registry and from its room before returning.
// Calls after the first are no-ops.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	roomID, ok := o.Registry.Unbind(sid)
	if !ok {
		return
	}
	metrics.Connections.Dec()
	if roomID != "" {
		o.Rooms.Remove(roomID, sid)
		metrics.Rooms.Set(float64(o.Rooms.Len()))
	}
	log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("disconnected")
}

// Dispatch applies a validated event on behalf of sid.
// Join and leave only touch membership; room events fan out to the event's room.
func (o *Orchestrator) Dispatch(sid core.SessionID, ev core.InboundEvent) {
	if err := ev.Validate(); err != nil {
		log.Debug().Err(err).Str("module", "app.orch").Str("sid", string(sid)).Str("type", string(ev.Kind())).Msg("dispatch skipped")
		return
	}
	switch e := ev.(type) {
	case core.JoinRoom:
		o.Join(sid, e.RoomID)
	case core.LeaveRoom:
		o.Leave(sid, e.RoomID)
	case core.RoomEvent:
		res, err := o.BroadcastToRoom(e.Room(), e.Outbound(o.now()))
		if err != nil {
			log.Error().Err(err).Str("module", "app.orch").Str("sid", string(sid)).Str("type", string(e.Kind())).Msg("broadcast failed")
			return
		}
		log.Info().
			Str("module", "app.orch").
			Str("sid", string(sid)).
			Str("type", string(e.Kind())).
			Str("room", string(e.Room())).
			Int("sent_to", res.SendTo).
			Msg("relayed")
	}
}
