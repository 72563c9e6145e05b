package domain

// Member represents the per-socket meta a room keeps about a participant.
// No transport or lifecycle logic here.
type Member struct {
	// ClientToken identifies the browser session that opened the socket.
	// Several sockets may share one token.
	ClientToken string
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(clientToken string) *Member {
	return &Member{ClientToken: clientToken}
}
