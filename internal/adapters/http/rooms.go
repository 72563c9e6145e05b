package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/dkeye/Lingo/internal/core"
	"github.com/dkeye/Lingo/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RoomService is what the REST handlers need from the signaling side.
type RoomService interface {
	core.Broadcaster
	ListRooms() []core.RoomInfo
	Members(room domain.RoomID) []core.MemberDTO
}

type RoomHandlers struct {
	Rooms RoomService
	Now   func() time.Time
}

type postMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

type kickRequest struct {
	UserID string `json:"userId"`
}

type sender struct {
	ID   domain.UserID `json:"id"`
	Name string        `json:"name"`
}

type chatMessage struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	UserID    domain.UserID `json:"userId"`
	RoomID    domain.RoomID `json:"roomId"`
	Type      string        `json:"type"`
	Timestamp string        `json:"timestamp"`
	Sender    sender        `json:"sender"`
}

type chatEnvelope struct {
	Type      core.EventType `json:"type"`
	Message   chatMessage    `json:"message"`
	Timestamp string         `json:"timestamp"`
}

func (h *RoomHandlers) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *RoomHandlers) List(c *gin.Context) {
	rooms := h.Rooms.ListRooms()
	c.JSON(http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms)})
}

func (h *RoomHandlers) Members(c *gin.Context) {
	roomID := domain.RoomID(c.Param("id"))
	members := h.Rooms.Members(roomID)
	if members == nil {
		members = []core.MemberDTO{}
	}
	c.JSON(http.StatusOK, gin.H{"roomId": roomID, "members": members, "count": len(members)})
}

// PostMessage relays a chat message sent over REST to the room's sockets.
func (h *RoomHandlers) PostMessage(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}
	if req.Type == "" {
		req.Type = "text"
	}

	roomID := domain.RoomID(c.Param("id"))
	ts := core.Timestamp(h.now())
	name := claims.Name
	if name == "" {
		name = claims.Subject
	}
	msg := chatMessage{
		ID:        uuid.NewString(),
		Content:   req.Content,
		UserID:    domain.UserID(claims.Subject),
		RoomID:    roomID,
		Type:      req.Type,
		Timestamp: ts,
		Sender:    sender{ID: domain.UserID(claims.Subject), Name: name},
	}
	res, err := h.Rooms.BroadcastToRoom(roomID, chatEnvelope{Type: core.EventChatMessage, Message: msg, Timestamp: ts})
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", string(roomID)).Msg("broadcast chat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}
	log.Info().Str("module", "adapters.http").Str("room", string(roomID)).Int("sent_to", res.SendTo).Msg("chat message posted")
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// Kick announces that a user was removed from the room. Who may kick is decided
// by the data store in front of this service.
func (h *RoomHandlers) Kick(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
		return
	}
	var req kickRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}
	if req.UserID == claims.Subject {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot kick yourself"})
		return
	}

	roomID := domain.RoomID(c.Param("id"))
	ev := core.KickUser{RoomID: roomID, UserID: domain.UserID(req.UserID)}
	if _, err := h.Rooms.BroadcastToRoom(roomID, ev.Outbound(h.now())); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("room", string(roomID)).Msg("broadcast kick")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to kick user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User successfully kicked from room"})
}
