// Package headers implements the bit-exact layouts of the NJE job
// header (NJH), data-set header (NDH), job trailer (NJT) and the NMR
// operator-message/command record, plus their EBCDIC/ASCII boundary.
package headers

import (
	"fmt"

	"github.com/hasplink/njeclient/internal/ebcdic"
)

// NMR flag bits (MSB-first, matching the wire layout).
const (
	NMRFlagCommand      = 0x80 // NMRMSG carries an operator command
	NMRFlagRemoteName   = 0x40 // NMROUT carries a JES2 remote number
	NMRFlagUserID       = 0x20 // NMROUT carries a receiving user id
	NMRFlagUCMID        = 0x10 // NMROUT carries MCS UCM console info
	NMRFlagConsoleOnly  = 0x08 // console is remote-authorized only
	NMRFlagNotJobAuth   = 0x04
	NMRFlagNotDeviceAuth = 0x02
	NMRFlagNotSystemAuth = 0x01
)

// NMR is an operator message or command record, decoded or ready to be
// encoded for RCB 0x9A.
type NMR struct {
	Flag   byte
	Level  byte
	Type   byte
	ToNode string // NMRTONOD, 8 EBCDIC bytes

	// RemoteQualifier is the wire's NMRFMQUL byte, which despite its
	// "from" name sits right after NMRTONOD and carries the remote
	// (target) node's qualifier, per njelib.py's sendNMR building
	// NMRTO from OHOST+target_node.
	RemoteQualifier byte
	Out             [8]byte // NMROUT, interpretation depends on Flag
	FromNode        string  // NMRFMNOD, 8 EBCDIC bytes

	// LocalQualifier is the wire's NMRTOQUL byte, carrying this
	// client's own node qualifier, per sendNMR building NMRFM from
	// RHOST+own_node.
	LocalQualifier byte
	Message        string
}

const nmrPrefixLen = 30

// HasFlag reports whether all bits in mask are set in Flag.
func (n NMR) HasFlag(mask byte) bool { return n.Flag&mask == mask }

// DecodeNMR parses an NMR record body (post-SCB-decompression payload
// of RCB 0x9A) into an NMR.
func DecodeNMR(d []byte) (NMR, error) {
	if len(d) < nmrPrefixLen {
		return NMR{}, fmt.Errorf("headers: NMR payload too short: %d bytes", len(d))
	}
	var rec NMR
	rec.Flag = d[0]
	rec.Level = d[1]
	rec.Type = d[2]
	ml := int(d[3])
	rec.ToNode = ebcdic.UnpadName(d[4:12])
	rec.RemoteQualifier = d[12]
	copy(rec.Out[:], d[13:21])
	rec.FromNode = ebcdic.UnpadName(d[21:29])
	rec.LocalQualifier = d[29]

	msg := d[nmrPrefixLen:]
	if ml > len(msg) {
		return NMR{}, fmt.Errorf("headers: NMR message length %d exceeds available %d bytes", ml, len(msg))
	}
	rec.Message = ebcdic.ToASCIIString(msg[:ml])
	return rec, nil
}

// NewCommandNMR builds an operator-command NMR, per the construction
// rules: NMRFLAG 0x90 for commands, level and type always 0x00.
func NewCommandNMR(toNode, fromNode, command string) NMR {
	return NMR{
		Flag:     0x90,
		Level:    0x00,
		Type:     0x00,
		ToNode:   toNode,
		FromNode: fromNode,
		Message:  command,
	}
}

// NewConsoleNMR builds a console-message NMR (NMRFLAG 0x10).
func NewConsoleNMR(toNode, fromNode, message string) NMR {
	return NMR{
		Flag:     0x10,
		Level:    0x00,
		Type:     0x00,
		ToNode:   toNode,
		FromNode: fromNode,
		Message:  message,
	}
}

// NewUserNMR builds a user-directed message NMR (NMRFLAG 0x20), with
// the target user id padded into NMROUT.
func NewUserNMR(toNode, fromNode, user, message string) NMR {
	rec := NMR{
		Flag:     0x20,
		Level:    0x00,
		Type:     0x00,
		ToNode:   toNode,
		FromNode: fromNode,
		Message:  message,
	}
	rec.Out = ebcdic.PadName(user)
	return rec
}

// Encode renders an NMR back onto the wire.
func (n NMR) Encode() []byte {
	msg := ebcdic.ToEBCDIC([]byte(n.Message))
	out := make([]byte, 0, nmrPrefixLen+len(msg))
	out = append(out, n.Flag, n.Level, n.Type, byte(len(msg)))
	to := ebcdic.PadName(n.ToNode)
	out = append(out, to[:]...)
	out = append(out, n.RemoteQualifier)
	out = append(out, n.Out[:]...)
	from := ebcdic.PadName(n.FromNode)
	out = append(out, from[:]...)
	out = append(out, n.LocalQualifier)
	out = append(out, msg...)
	return out
}
