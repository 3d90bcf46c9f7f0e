// Package njeclient implements an IBM NJE (Network Job Entry) client:
// the handshake state machine, framed wire codec, and record dispatcher
// described by IBM HAS2A6 "Network Job Entry: Formats and Protocols".
package njeclient

import (
	"net"

	"github.com/hasplink/njeclient/internal/headers"
	"github.com/hasplink/njeclient/internal/telemetry"
	"github.com/hasplink/njeclient/internal/transport"
	"github.com/hasplink/njeclient/internal/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"
)

// Session is one NJE connection to a peer node. It is not safe for
// concurrent use: the dispatch loop, the public API methods and the
// collected record slices are all meant to be driven by a single
// goroutine, matching the protocol's single-threaded cooperative model.
// Independent sessions (separate *Session values, each owning its own
// socket) may run concurrently in separate goroutines.
type Session struct {
	id     xid.ID
	log    *log.Entry
	metric *telemetry.Collectors

	conn  *transport.Conn
	state sessionState

	localName, remoteName string
	localIP, remoteIP     [4]byte
	localNode, remoteNode byte

	sequence wire.BCB
	fcs      uint16

	streamOpen bool
	offline    bool

	nmrs    []headers.NMR
	sysin   []SYSINRecord
	sysout  []SYSOUTRecord
}

// SYSINRecord is one decoded inbound SYSIN stream entry (job header,
// standard line, or job trailer) tagged with the SRCB class it arrived
// under.
type SYSINRecord struct {
	SRCB       byte
	JobHeader  *headers.JobHeader
	JobTrailer *headers.JobTrailer
	Text       string
}

// SYSOUTRecord is one decoded inbound SYSOUT stream entry.
type SYSOUTRecord struct {
	SRCB            byte
	DataSetHeader   *headers.DataSetHeader
	JobTrailer      *headers.JobTrailer
	Text            string
	CarriageControl byte
}

// NewSession creates a session identified by localName/remoteName (the
// RHOST/OHOST 8-character node names). The BCB sequence starts at its
// reset value and FCS at the standard egress initial value.
func NewSession(localName, remoteName string) *Session {
	id := xid.New()
	entry := log.WithField("session", id.String())

	reg := prometheus.NewRegistry()
	metrics, err := telemetry.NewCollectors(reg, id.String())
	if err != nil {
		// Registration only fails on a duplicate metric name, which can't
		// happen for a freshly created per-session registry.
		entry.Warnf("telemetry registration failed, metrics disabled: %v", err)
	}

	return &Session{
		id:         id,
		log:        entry,
		metric:     metrics,
		state:      stateDisconnected,
		localName:  localName,
		remoteName: remoteName,
		localNode:  0x01,
		sequence:   wire.InitialBCB,
		fcs:        0x8FCF,
	}
}

// SetDebugLevel maps to logrus verbosity: 0 is warnings and above, 1
// adds info, 2 and above adds debug/trace, matching the original
// client's debuglevel-controlled message verbosity.
func (s *Session) SetDebugLevel(n int) {
	switch {
	case n <= 0:
		log.SetLevel(log.WarnLevel)
	case n == 1:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.TraceLevel)
	}
}

// SetOffline marks the session as offline, the same flag Analyze sets.
// The flag does not gate sending: outbound records still go to whatever
// connection the session holds. AnalyzeBytes replays without a socket
// because it installs a byte-stream connection that discards writes.
func (s *Session) SetOffline() {
	s.offline = true
}

// SessionID returns the opaque per-session correlation id used in log
// lines and metrics labels.
func (s *Session) SessionID() string { return s.id.String() }

// NMR returns the accumulated inbound operator messages/commands.
func (s *Session) NMR() []headers.NMR { return s.nmrs }

// SYSIN returns the accumulated inbound SYSIN stream records.
func (s *Session) SYSIN() []SYSINRecord { return s.sysin }

// SYSOUT returns the accumulated inbound SYSOUT stream records.
func (s *Session) SYSOUT() []SYSOUTRecord { return s.sysout }

// nextBCB advances and returns the current outbound sequence number,
// per the invariant that every outbound record (including heartbeats)
// carries and then increments it.
func (s *Session) nextBCB() wire.BCB {
	cur := s.sequence
	s.sequence = s.sequence.Next()
	return cur
}

// resetSequence restores the BCB to its initial value, done on
// disconnect/signoff.
func (s *Session) resetSequence() {
	s.sequence = wire.InitialBCB
}

func ipToBytes(ip net.IP) [4]byte {
	var out [4]byte
	v4 := ip.To4()
	if v4 != nil {
		copy(out[:], v4)
	}
	return out
}
