package orch

import (
	"github.com/dkeye/Lingo/internal/core"
	"github.com/dkeye/Lingo/internal/domain"
	"github.com/dkeye/Lingo/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Join puts sid into roomID. A session belongs to at most one room, so joining
// a different room implicitly leaves the previous one.
func (o *Orchestrator) Join(sid core.SessionID, roomID domain.RoomID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, ok := o.Registry.GetSession(sid)
	if !ok {
		return false
	}
	if prev, _, ok := o.Registry.RoomOf(sid); ok {
		if prev == roomID {
			return true
		}
		o.Rooms.Remove(prev, sid)
		log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("from_room", string(prev)).Msg("left previous room")
	}
	o.Rooms.Add(roomID, session)
	o.Registry.UpdateRoom(sid, roomID)
	metrics.Rooms.Set(float64(o.Rooms.Len()))
	log.Info().
		Str("module", "app.orch").
		Str("sid", string(sid)).
		Str("client", clientOf(session)).
		Str("room", string(roomID)).
		Msg("added to room")
	return true
}

// Leave removes sid from roomID if it is there. The current room is cleared only
// when it is roomID, so leaving some other room never orphans a membership.
func (o *Orchestrator) Leave(sid core.SessionID, roomID domain.RoomID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	removed := o.Rooms.Remove(roomID, sid)
	if cur, _, ok := o.Registry.RoomOf(sid); ok && cur == roomID {
		o.Registry.RemoveRoom(sid)
	}
	if removed {
		metrics.Rooms.Set(float64(o.Rooms.Len()))
		log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("room", string(roomID)).Msg("left room")
	}
}

func (o *Orchestrator) ListRooms() []core.RoomInfo {
	return o.Rooms.List()
}

// Members returns the room's members with any identity learned from token exchange.
func (o *Orchestrator) Members(roomID domain.RoomID) []core.MemberDTO {
	members := o.Rooms.MembersOf(roomID)
	out := make([]core.MemberDTO, 0, len(members))
	for _, ms := range members {
		dto := core.MemberDTO{SID: ms.ID()}
		if u, ok := o.Registry.UserOf(ms.ID()); ok {
			dto.UserID = u.ID
			dto.Username = u.Username
		}
		out = append(out, dto)
	}
	return out
}
