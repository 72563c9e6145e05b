package core

import (
	"sort"
	"sync"

	"github.com/dkeye/Lingo/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomIndex answers "who is in room R?".
// A room entry is dropped as soon as its last member leaves, so empty rooms never accumulate.
// It never closes adapter-owned resources.
type RoomIndex struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]map[SessionID]MemberSession
}

func NewRoomIndex() *RoomIndex {
	return &RoomIndex{rooms: make(map[domain.RoomID]map[SessionID]MemberSession)}
}

// Add puts ms into room. Adding an existing member is a no-op.
func (x *RoomIndex) Add(room domain.RoomID, ms MemberSession) {
	x.mu.Lock()
	defer x.mu.Unlock()
	members, ok := x.rooms[room]
	if !ok {
		members = make(map[SessionID]MemberSession)
		x.rooms[room] = members
	}
	members[ms.ID()] = ms
	log.Debug().Str("module", "core.rooms").Str("sid", string(ms.ID())).Str("room", string(room)).Msg("member added")
}

// Remove takes sid out of room and reports whether it was there.
func (x *RoomIndex) Remove(room domain.RoomID, sid SessionID) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	members, ok := x.rooms[room]
	if !ok {
		return false
	}
	if _, ok := members[sid]; !ok {
		return false
	}
	delete(members, sid)
	if len(members) == 0 {
		delete(x.rooms, room)
	}
	log.Debug().Str("module", "core.rooms").Str("sid", string(sid)).Str("room", string(room)).Msg("member removed")
	return true
}

// MembersOf returns a copy of the room's member set.
// Later joins and leaves do not affect the returned slice.
func (x *RoomIndex) MembersOf(room domain.RoomID) []MemberSession {
	x.mu.RLock()
	defer x.mu.RUnlock()
	members := x.rooms[room]
	out := make([]MemberSession, 0, len(members))
	for _, ms := range members {
		out = append(out, ms)
	}
	return out
}

func (x *RoomIndex) Contains(room domain.RoomID, sid SessionID) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.rooms[room][sid]
	return ok
}

func (x *RoomIndex) MemberCount(room domain.RoomID) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.rooms[room])
}

// Len is the number of non-empty rooms.
func (x *RoomIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.rooms)
}

// List returns every non-empty room ordered by id.
func (x *RoomIndex) List() []RoomInfo {
	x.mu.RLock()
	out := make([]RoomInfo, 0, len(x.rooms))
	for id, members := range x.rooms {
		out = append(out, RoomInfo{ID: id, MemberCount: len(members)})
	}
	x.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
