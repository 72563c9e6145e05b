package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dkeye/Lingo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent_Variants(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  InboundEvent
	}{
		{"join", `{"type":"room:join","roomId":"r1"}`, JoinRoom{RoomID: "r1"}},
		{"join numeric room", `{"type":"room:join","roomId":42}`, JoinRoom{RoomID: "42"}},
		{"leave", `{"type":"room:leave","roomId":"r1"}`, LeaveRoom{RoomID: "r1"}},
		{"kick", `{"type":"room:kick","roomId":"r1","userId":"u2"}`, KickUser{RoomID: "r1", UserID: "u2"}},
		{"speak request", `{"type":"speak:request","roomId":"r1","userId":"u2","userName":"Ko"}`,
			SpeakRequest{RoomID: "r1", UserID: "u2", UserName: "Ko"}},
		{"speak approved", `{"type":"speak:approved","roomId":"r1","userId":"u2"}`,
			SpeakDecision{Approved: true, RoomID: "r1", UserID: "u2"}},
		{"speak denied", `{"type":"speak:denied","roomId":"r1","userId":"u2"}`,
			SpeakDecision{RoomID: "r1", UserID: "u2"}},
		{"like", `{"type":"user:like","roomId":"r1","fromUserId":"u1","fromUserName":"Al","toUserId":"u2"}`,
			UserLike{RoomID: "r1", FromUserID: "u1", FromUserName: "Al", ToUserID: "u2"}},
		{"auth", `{"type":"auth","token":"abc"}`, Authenticate{Token: "abc"}},
		{"unknown", `{"type":"room:dance","roomId":"r1"}`, Unhandled{Type: "room:dance"}},
		{"no type", `{"roomId":"r1"}`, Unhandled{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent([]byte(tt.frame))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeEvent_Malformed(t *testing.T) {
	for _, frame := range []string{`not json`, `"a string"`, `[1,2]`, `null`, `{"type":`} {
		_, err := DecodeEvent([]byte(frame))
		assert.ErrorIs(t, err, ErrMalformedFrame, frame)
	}
}

func TestDecodeEvent_RejectsInvalidUTF8(t *testing.T) {
	frame := []byte("{\"type\":\"chat:message\",\"roomId\":\"r1\",\"content\":\"hi\",\"nick\":\"\xff\xfe\"}")
	_, err := DecodeEvent(frame)
	assert.ErrorIs(t, err, ErrMalformedFrame)

	ev, err := DecodeEvent([]byte(`{"type":"chat:message","roomId":"r1","content":"héllo ✓"}`))
	require.NoError(t, err)
	assert.Equal(t, "héllo ✓", ev.(ChatMessage).Content)
}

func TestValidate_MissingFields(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"speak:request"}`))
	require.NoError(t, err)
	err = ev.Validate()
	require.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, "missing required field: roomId", err.Error())

	ev, err = DecodeEvent([]byte(`{"type":"user:like","roomId":"r1","fromUserId":"u1","toUserId":"u2"}`))
	require.NoError(t, err)
	assert.EqualError(t, ev.Validate(), "missing required field: fromUserName")

	ev, err = DecodeEvent([]byte(`{"type":"room:join","roomId":true}`))
	require.NoError(t, err)
	assert.ErrorIs(t, ev.Validate(), ErrMissingField)

	assert.NoError(t, Unhandled{}.Validate())
}

func TestOutbound_StampsTimestamp(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 30, 0, 5_000_000, time.FixedZone("KST", 9*3600))

	b, err := json.Marshal(KickUser{RoomID: "r1", UserID: "u2"}.Outbound(at))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"user:kicked","userId":"u2","roomId":"r1","timestamp":"2026-03-01T03:30:00.005Z"}`, string(b))

	b, err = json.Marshal(SpeakDecision{Approved: false, RoomID: "r1", UserID: "u2"}.Outbound(at))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"speak:denied","userId":"u2","roomId":"r1","timestamp":"2026-03-01T03:30:00.005Z"}`, string(b))
}

func TestChatMessage_RelaysEveryField(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"chat:message","roomId":"r1","content":"hi","sender":{"id":"u1"},"timestamp":"client"}`))
	require.NoError(t, err)
	require.NoError(t, ev.Validate())

	re, ok := ev.(RoomEvent)
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("r1"), re.Room())

	b, err := json.Marshal(re.Outbound(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"chat:message","roomId":"r1","content":"hi","sender":{"id":"u1"},"timestamp":"2026-01-02T03:04:05.000Z"}`, string(b))
}
