package orch

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Lingo/internal/app"
	"github.com/dkeye/Lingo/internal/core"
	"github.com/dkeye/Lingo/internal/domain"
	"github.com/dkeye/Lingo/internal/metrics"
	"github.com/rs/zerolog/log"
)

// BroadcastToRoom serializes payload once and queues it to every open member of roomID.
// An empty or unknown room is not an error. It is safe to call from outside the socket
// handlers, e.g. after a REST write.
func (o *Orchestrator) BroadcastToRoom(roomID domain.RoomID, payload any) (core.PublishResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return core.PublishResult{}, fmt.Errorf("marshal broadcast: %w", err)
	}

	o.mu.Lock()
	res := core.Fanout(o.Rooms.MembersOf(roomID), data)
	o.mu.Unlock()

	metrics.Broadcasts.Inc()
	metrics.Deliveries.Add(float64(res.SendTo))
	metrics.Skipped.Add(float64(res.Skipped))
	metrics.Dropped.Add(float64(len(res.Dropped)))
	log.Debug().
		Str("module", "app.orch").
		Str("room", string(roomID)).
		Int("sent_to", res.SendTo).
		Int("skipped", res.Skipped).
		Int("dropped", len(res.Dropped)).
		Msg("broadcast result")

	o.applyPolicy(roomID, res.Dropped)
	return res, nil
}

func (o *Orchestrator) applyPolicy(roomID domain.RoomID, dropped []core.MemberSession) {
	if o.Policy == nil {
		return
	}
	for _, slow := range dropped {
		switch o.Policy.OnBackPressure(roomID, slow) {
		case app.Disconnect:
			log.Warn().Str("module", "app.orch").Str("sid", string(slow.ID())).Str("room", string(roomID)).Msg("closing slow consumer")
			slow.Signal().Close()
		case app.DropFrame, app.NoAction:
		}
	}
}
