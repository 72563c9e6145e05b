package signal

import (
	"time"

	"github.com/dkeye/Lingo/internal/core"
	"github.com/dkeye/Lingo/internal/domain"
	"github.com/rs/zerolog/log"
)

// authenticate verifies the token of an auth frame and records who is behind sid.
// On failure the client gets an error frame and false is returned.
func (ctl *SignalWSController) authenticate(sid core.SessionID, c *WsSignalConn, ev core.Authenticate, now time.Time) bool {
	if ctl.Auth == nil {
		ctl.sendJSON(c, newErrorAck(msgInvalidAuth, "", now))
		return false
	}
	claims, err := ctl.Auth.Verify(ev.Token)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("auth rejected")
		ctl.sendJSON(c, newErrorAck(msgInvalidAuth, "", now))
		return false
	}

	name := claims.Name
	if name == "" {
		name = claims.Subject
	}
	user, err := domain.NewUser(domain.UserID(claims.Subject), name)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("auth identity rejected")
		ctl.sendJSON(c, newErrorAck(msgInvalidAuth, "", now))
		return false
	}
	ctl.Orch.Registry.SetUser(sid, user)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("user", string(user.ID)).Msg("authenticated")
	return true
}
