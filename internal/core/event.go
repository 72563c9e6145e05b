package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dkeye/Lingo/internal/domain"
)

type EventType string

// Inbound kinds.
const (
	EventRoomJoin      EventType = "room:join"
	EventRoomLeave     EventType = "room:leave"
	EventRoomKick      EventType = "room:kick"
	EventChatMessage   EventType = "chat:message"
	EventSpeakRequest  EventType = "speak:request"
	EventSpeakApproved EventType = "speak:approved"
	EventSpeakDenied   EventType = "speak:denied"
	EventUserLike      EventType = "user:like"
	EventAuth          EventType = "auth"
)

// Outbound-only kinds.
const (
	EventUserKicked EventType = "user:kicked"
	EventEcho       EventType = "echo"
	EventError      EventType = "error"
)

// TimestampLayout renders ISO-8601 with millisecond precision in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrMissingField   = errors.New("missing required field")
)

func Timestamp(t time.Time) string { return t.UTC().Format(TimestampLayout) }

// InboundEvent is one decoded client frame.
type InboundEvent interface {
	Kind() EventType
	// Validate reports the first required field that is absent.
	Validate() error
}

// RoomEvent is an inbound event that is relayed to every member of its room.
type RoomEvent interface {
	InboundEvent
	Room() domain.RoomID
	Outbound(at time.Time) any
}

type JoinRoom struct{ RoomID domain.RoomID }

func (JoinRoom) Kind() EventType   { return EventRoomJoin }
func (e JoinRoom) Validate() error { return requireFields("roomId", string(e.RoomID)) }

type LeaveRoom struct{ RoomID domain.RoomID }

func (LeaveRoom) Kind() EventType   { return EventRoomLeave }
func (e LeaveRoom) Validate() error { return requireFields("roomId", string(e.RoomID)) }

// Authenticate carries a token for out-of-band identity exchange.
type Authenticate struct{ Token string }

func (Authenticate) Kind() EventType   { return EventAuth }
func (e Authenticate) Validate() error { return requireFields("token", e.Token) }

// Unhandled is any frame whose type is not recognised. It is acknowledged and otherwise ignored.
type Unhandled struct{ Type string }

func (e Unhandled) Kind() EventType { return EventType(e.Type) }
func (Unhandled) Validate() error   { return nil }

type KickUser struct {
	RoomID domain.RoomID
	UserID domain.UserID
}

func (KickUser) Kind() EventType       { return EventRoomKick }
func (e KickUser) Room() domain.RoomID { return e.RoomID }
func (e KickUser) Validate() error {
	return requireFields("roomId", string(e.RoomID), "userId", string(e.UserID))
}

func (e KickUser) Outbound(at time.Time) any {
	return UserKicked{Type: EventUserKicked, UserID: e.UserID, RoomID: e.RoomID, Timestamp: Timestamp(at)}
}

// ChatMessage is relayed field for field; only the timestamp is set by the server.
type ChatMessage struct {
	RoomID  domain.RoomID
	Content string
	Fields  map[string]json.RawMessage
}

func (ChatMessage) Kind() EventType       { return EventChatMessage }
func (e ChatMessage) Room() domain.RoomID { return e.RoomID }
func (e ChatMessage) Validate() error {
	return requireFields("roomId", string(e.RoomID), "content", e.Content)
}

func (e ChatMessage) Outbound(at time.Time) any {
	out := make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		out[k] = v
	}
	out["type"] = EventChatMessage
	out["timestamp"] = Timestamp(at)
	return out
}

type SpeakRequest struct {
	RoomID   domain.RoomID
	UserID   domain.UserID
	UserName string
}

func (SpeakRequest) Kind() EventType       { return EventSpeakRequest }
func (e SpeakRequest) Room() domain.RoomID { return e.RoomID }
func (e SpeakRequest) Validate() error {
	return requireFields("roomId", string(e.RoomID), "userId", string(e.UserID), "userName", e.UserName)
}

func (e SpeakRequest) Outbound(at time.Time) any {
	return SpeakNotice{Type: EventSpeakRequest, UserID: e.UserID, UserName: e.UserName, RoomID: e.RoomID, Timestamp: Timestamp(at)}
}

// SpeakDecision is the host's answer to a speak request.
type SpeakDecision struct {
	Approved bool
	RoomID   domain.RoomID
	UserID   domain.UserID
}

func (e SpeakDecision) Kind() EventType {
	if e.Approved {
		return EventSpeakApproved
	}
	return EventSpeakDenied
}

func (e SpeakDecision) Room() domain.RoomID { return e.RoomID }
func (e SpeakDecision) Validate() error {
	return requireFields("roomId", string(e.RoomID), "userId", string(e.UserID))
}

func (e SpeakDecision) Outbound(at time.Time) any {
	return SpeakNotice{Type: e.Kind(), UserID: e.UserID, RoomID: e.RoomID, Timestamp: Timestamp(at)}
}

type UserLike struct {
	RoomID       domain.RoomID
	FromUserID   domain.UserID
	FromUserName string
	ToUserID     domain.UserID
}

func (UserLike) Kind() EventType       { return EventUserLike }
func (e UserLike) Room() domain.RoomID { return e.RoomID }
func (e UserLike) Validate() error {
	return requireFields(
		"roomId", string(e.RoomID),
		"fromUserId", string(e.FromUserID),
		"fromUserName", e.FromUserName,
		"toUserId", string(e.ToUserID),
	)
}

func (e UserLike) Outbound(at time.Time) any {
	return LikeNotice{
		Type:         EventUserLike,
		FromUserID:   e.FromUserID,
		FromUserName: e.FromUserName,
		ToUserID:     e.ToUserID,
		RoomID:       e.RoomID,
		Timestamp:    Timestamp(at),
	}
}

type UserKicked struct {
	Type      EventType     `json:"type"`
	UserID    domain.UserID `json:"userId"`
	RoomID    domain.RoomID `json:"roomId"`
	Timestamp string        `json:"timestamp"`
}

type SpeakNotice struct {
	Type      EventType     `json:"type"`
	UserID    domain.UserID `json:"userId"`
	UserName  string        `json:"userName,omitempty"`
	RoomID    domain.RoomID `json:"roomId"`
	Timestamp string        `json:"timestamp"`
}

type LikeNotice struct {
	Type         EventType     `json:"type"`
	FromUserID   domain.UserID `json:"fromUserId"`
	FromUserName string        `json:"fromUserName"`
	ToUserID     domain.UserID `json:"toUserId"`
	RoomID       domain.RoomID `json:"roomId"`
	Timestamp    string        `json:"timestamp"`
}

// DecodeEvent parses a text frame into its variant.
// Anything that is not a UTF-8 JSON object is ErrMalformedFrame. Field presence is
// not checked here; call Validate on the result.
func DecodeEvent(data []byte) (InboundEvent, error) {
	// encoding/json lets invalid bytes through inside strings, and frames are relayed as text.
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrMalformedFrame)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedFrame)
	}

	kind := stringField(fields, "type")
	room := domain.RoomID(stringField(fields, "roomId"))
	switch EventType(kind) {
	case EventRoomJoin:
		return JoinRoom{RoomID: room}, nil
	case EventRoomLeave:
		return LeaveRoom{RoomID: room}, nil
	case EventRoomKick:
		return KickUser{RoomID: room, UserID: domain.UserID(stringField(fields, "userId"))}, nil
	case EventChatMessage:
		return ChatMessage{RoomID: room, Content: stringField(fields, "content"), Fields: fields}, nil
	case EventSpeakRequest:
		return SpeakRequest{
			RoomID:   room,
			UserID:   domain.UserID(stringField(fields, "userId")),
			UserName: stringField(fields, "userName"),
		}, nil
	case EventSpeakApproved, EventSpeakDenied:
		return SpeakDecision{
			Approved: EventType(kind) == EventSpeakApproved,
			RoomID:   room,
			UserID:   domain.UserID(stringField(fields, "userId")),
		}, nil
	case EventUserLike:
		return UserLike{
			RoomID:       room,
			FromUserID:   domain.UserID(stringField(fields, "fromUserId")),
			FromUserName: stringField(fields, "fromUserName"),
			ToUserID:     domain.UserID(stringField(fields, "toUserId")),
		}, nil
	case EventAuth:
		return Authenticate{Token: stringField(fields, "token")}, nil
	default:
		return Unhandled{Type: kind}, nil
	}
}

// stringField reads key as a string. Numbers are accepted in their literal form;
// any other JSON type counts as absent.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// requireFields takes name/value pairs and reports the first empty value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, pairs[i])
		}
	}
	return nil
}
