package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/Lingo/internal/core"
	"github.com/dkeye/Lingo/internal/metrics"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// writePump is the only writer of the socket. server is the process context and
// ctx the per-connection one; a close frame is sent only when the server goes away.
func (ctl *SignalWSController) writePump(server, ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			if server.Err() != nil {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
					time.Now().Add(ctl.opts.WriteWait))
			}
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping failed")
				return
			}
		}
	}
}

// readPump owns the lifecycle: whatever ends the read loop, the session is out of
// the registry and its room before the socket is released.
func (ctl *SignalWSController) readPump(sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		c.beginClose()
		ctl.Orch.Registry.Cancel(sid)
		ctl.Orch.OnDisconnect(sid)
		ctl.Limiter.Forget(sid)
		c.Close()
	}()

	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
			}
			return
		}
		ctl.handleSignal(sid, c, data)
	}
}

// handleSignal answers every frame exactly once: an error for rate-limited or
// malformed input, otherwise an echo sent after the event took effect.
func (ctl *SignalWSController) handleSignal(sid core.SessionID, c *WsSignalConn, data []byte) {
	now := ctl.now()
	if !ctl.Limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("rate limited")
		ctl.sendJSON(c, newErrorAck(msgRateLimited, "", now))
		return
	}

	ev, err := core.DecodeEvent(data)
	if err != nil {
		metrics.Malformed.Inc()
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad json")
		ctl.sendJSON(c, newErrorAck(msgInvalidJSON, err.Error(), now))
		return
	}
	metrics.Frames.WithLabelValues(frameLabel(ev)).Inc()

	ack := newEchoAck(data, now)
	if err := ev.Validate(); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("type", string(ev.Kind())).Msg("frame dropped")
		ack.Dropped = err.Error()
		ctl.sendJSON(c, ack)
		return
	}

	switch e := ev.(type) {
	case core.Authenticate:
		if !ctl.authenticate(sid, c, e, now) {
			return
		}
	case core.Unhandled:
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Str("type", e.Type).Msg("unknown signal")
	default:
		ctl.Orch.Dispatch(sid, ev)
	}
	ctl.sendJSON(c, ack)
}

func (ctl *SignalWSController) now() time.Time {
	if ctl.Orch != nil && ctl.Orch.Now != nil {
		return ctl.Orch.Now()
	}
	return time.Now()
}

// frameLabel keeps the metric cardinality bounded to known kinds.
func frameLabel(ev core.InboundEvent) string {
	if _, ok := ev.(core.Unhandled); ok {
		return "unknown"
	}
	return string(ev.Kind())
}

func (ctl *SignalWSController) sendJSON(c core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(b); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("sendJSON")
	}
}
