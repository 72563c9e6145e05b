package core

import (
	"errors"
)

// Fanout writes data once to every member whose transport is open.
// Closed members are skipped; members with a full queue are reported as dropped.
// Nothing is retried or queued beyond the member's own send buffer.
func Fanout(members []MemberSession, data Frame) PublishResult {
	res := PublishResult{}
	for _, m := range members {
		sig := m.Signal()
		if sig == nil || !sig.IsOpen() {
			res.Skipped++
			continue
		}
		if err := sig.TrySend(data); err != nil {
			if errors.Is(err, ErrConnClosed) {
				res.Skipped++
				continue
			}
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	return res
}
