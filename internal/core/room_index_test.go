package core

import (
	"testing"

	"github.com/dkeye/Lingo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomIndex_AddAndMembersOf(t *testing.T) {
	idx := NewRoomIndex()
	a, _ := newSession("a")
	b, _ := newSession("b")

	idx.Add("r1", a)
	idx.Add("r1", b)
	idx.Add("r1", a)

	members := idx.MembersOf("r1")
	require.Len(t, members, 2)
	assert.ElementsMatch(t, []SessionID{"a", "b"}, []SessionID{members[0].ID(), members[1].ID()})
	assert.True(t, idx.Contains("r1", "a"))
	assert.Equal(t, 2, idx.MemberCount("r1"))
}

func TestRoomIndex_RemoveIsIdempotent(t *testing.T) {
	idx := NewRoomIndex()
	a, _ := newSession("a")
	idx.Add("r1", a)

	assert.True(t, idx.Remove("r1", "a"))
	assert.False(t, idx.Remove("r1", "a"))
	assert.False(t, idx.Remove("nope", "a"))
	assert.Empty(t, idx.MembersOf("r1"))
}

func TestRoomIndex_ReapsEmptyRooms(t *testing.T) {
	idx := NewRoomIndex()
	a, _ := newSession("a")
	b, _ := newSession("b")
	idx.Add("r1", a)
	idx.Add("r2", b)
	require.Equal(t, 2, idx.Len())

	idx.Remove("r1", "a")
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, []RoomInfo{{ID: "r2", MemberCount: 1}}, idx.List())
}

func TestRoomIndex_SnapshotIsStable(t *testing.T) {
	idx := NewRoomIndex()
	a, _ := newSession("a")
	b, _ := newSession("b")
	idx.Add("r1", a)

	snap := idx.MembersOf("r1")
	idx.Add("r1", b)
	idx.Remove("r1", "a")

	require.Len(t, snap, 1)
	assert.Equal(t, SessionID("a"), snap[0].ID())
}

func TestRoomIndex_ListSorted(t *testing.T) {
	idx := NewRoomIndex()
	for _, room := range []domain.RoomID{"c", "a", "b"} {
		s, _ := newSession("s-" + string(room))
		idx.Add(room, s)
	}
	list := idx.List()
	require.Len(t, list, 3)
	assert.Equal(t, domain.RoomID("a"), list[0].ID)
	assert.Equal(t, domain.RoomID("c"), list[2].ID)
}
