package njeclient

// sessionState is the session's position in the connect/handshake/
// steady-state lifecycle, matching the state table a session walks
// through on the way to being signed on.
type sessionState int

const (
	stateDisconnected sessionState = iota
	stateTCPUp
	stateOpenSent
	stateSohSent
	stateIRecSent
	stateKRecSent
	stateSignedOn
)

func (s sessionState) String() string {
	switch s {
	case stateDisconnected:
		return "disconnected"
	case stateTCPUp:
		return "tcp-up"
	case stateOpenSent:
		return "open-sent"
	case stateSohSent:
		return "soh-sent"
	case stateIRecSent:
		return "i-record-sent"
	case stateKRecSent:
		return "k-record-sent"
	case stateSignedOn:
		return "signed-on"
	default:
		return "unknown"
	}
}
