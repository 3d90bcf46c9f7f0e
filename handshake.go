package njeclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/hasplink/njeclient/internal/ebcdic"
	"github.com/hasplink/njeclient/internal/record"
	"github.com/hasplink/njeclient/internal/transport"
	"github.com/hasplink/njeclient/internal/wire"
)

// NCCR control-record RCB and its SRCB letters, EBCDIC-encoded.
const (
	nccrRCB        = 0xF0
	nccrSRCBInit   = 0xC9 // 'I'
	nccrSRCBReset  = 0xD2 // 'K'
	nccrSRCBConcur = 0xD3 // 'L'
	nccrSRCBSignoff = 0xC2 // 'B'
)

// Connect opens the transport (TLS first, falling back to plain TCP)
// and records the local/remote IPs used by the OPEN control record.
// Like the original client, local_ip defaults to the loopback address
// unless the caller already set one; remote_ip is whatever host
// resolves to.
func (s *Session) Connect(ctx context.Context, host string, port int, timeout time.Duration) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := transport.Dial(ctx, addr, timeout, transport.InsecurePolicy())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	s.conn = conn

	if s.localIP == ([4]byte{}) {
		s.localIP = ipToBytes(net.ParseIP("127.0.0.1"))
	}
	if ips, err := net.LookupIP(host); err == nil {
		for _, ip := range ips {
			if v4 := ip.To4(); v4 != nil {
				s.remoteIP = ipToBytes(ip)
				break
			}
		}
	}

	s.state = stateTCPUp
	s.log.Infof("connected to %s (tls=%v)", addr, conn.TLS)
	return nil
}

// Initiate sends the OPEN control record and drives the connection
// through SOH-ENQ/DLE-ACK0, matching the state table in the handshake
// description: TCPUp -> OpenSent -> SohSent.
func (s *Session) Initiate() error {
	if s.state != stateTCPUp {
		return fmt.Errorf("%w: initiate called from state %s", ErrUnexpectedRecord, s.state)
	}

	open := make([]byte, 0, 33)
	open = append(open, ebcdic.PadName("OPEN")[:]...)
	rhost := ebcdic.PadName(s.localName)
	open = append(open, rhost[:]...)
	open = append(open, s.localIP[:]...)
	ohost := ebcdic.PadName(s.remoteName)
	open = append(open, ohost[:]...)
	open = append(open, s.remoteIP[:]...)
	open = append(open, 0x00) // R, unused on send

	s.state = stateOpenSent
	if _, err := s.conn.Write(open); err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	reply := make([]byte, 33)
	if _, err := io.ReadFull(s.conn, reply); err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	r := reply[32]
	if r != 0 {
		s.reportHandshakeFailure()
		return &HandshakeError{Reason: r}
	}

	if err := s.sendSOHENQ(); err != nil {
		return err
	}
	s.state = stateSohSent

	block, err := s.readBlock()
	if err != nil {
		return err
	}
	// DLE-ACK0 arrives as a bare TTR payload, like SOH-ENQ, with no
	// DLE-STX record framing.
	content, err := wire.TTBBlockContent(block)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFramingError, err)
	}
	n, err := wire.ReadTTR(content)
	if err != nil || len(content) < 4+n {
		return fmt.Errorf("%w: no DLE-ACK0 after SOH-ENQ", ErrUnexpectedRecord)
	}
	data := content[4 : 4+n]
	if len(data) < 2 || data[0] != 0x10 || data[1] != 0x70 {
		return fmt.Errorf("%w: expected DLE ACK0, got % X", ErrUnexpectedRecord, data)
	}
	return nil
}

func (s *Session) sendSOHENQ() error {
	frame := wire.MakeTTB(wire.MakeTTR([]byte{0x01, 0x2D}))
	_, err := s.conn.Write(frame)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return nil
}

// Signon sends the I-record and walks the reset/concurrence exchange,
// driving SohSent -> IRecSent -> (KRecSent ->) SignedOn.
func (s *Session) Signon(password string) error {
	if s.state != stateSohSent {
		return fmt.Errorf("%w: signon called from state %s", ErrUnexpectedRecord, s.state)
	}
	s.fcs = 0x8FCF

	if err := s.sendIRecord(password); err != nil {
		return err
	}
	s.state = stateIRecSent

	if err := s.driveSignonReplies(); err != nil {
		return err
	}
	if s.metric != nil {
		s.metric.Signons.Inc()
	}
	return nil
}

// driveSignonReplies processes J-records until a non-zero NCCIEVNT is
// seen (either from the peer directly, or after this client sends its
// own K-record reset and receives the follow-up J).
func (s *Session) driveSignonReplies() error {
	for {
		block, err := s.readBlock()
		if err != nil {
			return err
		}
		records, err := record.DecodeBlock(block)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFramingError, err)
		}
		for _, rec := range records {
			for _, t := range rec.Tuples {
				if t.RCB != nccrRCB {
					continue
				}
				switch t.SRCB {
				case 0xD1: // 'J'
					if len(t.Data) < 14 {
						return fmt.Errorf("%w: J-record too short (%d bytes)", ErrFramingError, len(t.Data))
					}
					qual := t.Data[9]
					s.remoteNode = qual
					evnt := t.Data[10:14]
					zero := evnt[0] == 0 && evnt[1] == 0 && evnt[2] == 0 && evnt[3] == 0
					if zero {
						if err := s.sendResetRecord(); err != nil {
							return err
						}
						s.state = stateKRecSent
						continue
					}
					if err := s.sendConcurrenceRecord(evnt); err != nil {
						return err
					}
					s.state = stateSignedOn
					return nil
				}
			}
		}
	}
}

func (s *Session) sendIRecord(password string) error {
	body := make([]byte, 0, 41)
	body = append(body, 0x29)
	rhost := ebcdic.PadName(s.localName)
	body = append(body, rhost[:]...)
	body = append(body, s.localNode)
	body = append(body, 0x00, 0x00, 0x00, 0x00) // NCCIEVNT
	body = append(body, 0x00, 0x64)             // NCCIREST
	body = append(body, 0x80, 0x00)             // BUFSIZE
	pw := ebcdic.PadName(password)
	body = append(body, pw[:]...)
	body = append(body, pw[:]...)
	body = append(body, 0x00)                   // NCCIFLG
	body = append(body, 0x15, 0x00, 0x00, 0x00)  // NCCIFEAT

	return s.sendRecord(record.Tuple{RCB: nccrRCB, SRCB: nccrSRCBInit, Data: body})
}

func (s *Session) sendResetRecord() error {
	body := []byte{0x09, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0xC8, 0x00, 0x00, 0x00, 0x00}
	return s.sendRecord(record.Tuple{RCB: nccrRCB, SRCB: nccrSRCBReset, Data: body})
}

func (s *Session) sendConcurrenceRecord(evnt []byte) error {
	body := make([]byte, 0, 7)
	body = append(body, 0x09)
	body = append(body, evnt...)
	body = append(body, 0x00, 0xC8)
	return s.sendRecord(record.Tuple{RCB: nccrRCB, SRCB: nccrSRCBConcur, Data: body})
}

// sendRecord encodes one or more tuples into a single record and writes
// it, advancing BCB.
func (s *Session) sendRecord(tuples ...record.Tuple) error {
	frame := record.EncodeRecord(s.nextBCB(), s.fcs, tuples...)
	if _, err := s.conn.Write(frame); err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if s.metric != nil {
		s.metric.FramesSent.Inc()
		s.metric.BytesSent.Add(float64(len(frame)))
	}
	return nil
}

// Open is the convenience composition of Connect, Initiate and Signon
// matching the original client's session() call.
func (s *Session) Open(ctx context.Context, host string, port int, timeout time.Duration, password string) error {
	if err := s.Connect(ctx, host, port, timeout); err != nil {
		return err
	}
	if err := s.Initiate(); err != nil {
		return err
	}
	return s.Signon(password)
}

// Signoff sends a B-type NCCR and closes the connection regardless of
// prior errors, then resets the sequence counter.
func (s *Session) Signoff() error {
	if s.conn != nil {
		body := []byte{0x00, 0x00, 0x00, 0x00}
		_ = s.sendRecord(record.Tuple{RCB: nccrRCB, SRCB: nccrSRCBSignoff, Data: body})
		_ = s.conn.Close()
	}
	s.resetSequence()
	s.state = stateDisconnected
	return nil
}

func (s *Session) reportHandshakeFailure() {
	if s.metric != nil {
		s.metric.HandshakeFails.Inc()
	}
}

// readBlock reads one complete TTB block from the connection: the
// 4-byte length prefix, then the rest of the declared length.
func (s *Session) readBlock() ([]byte, error) {
	header := make([]byte, 4)
	if _, err := io.ReadFull(s.conn, header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	total, err := wire.ReadTTB(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFramingError, err)
	}
	if total < 4 {
		return nil, fmt.Errorf("%w: TTB declares implausible length %d", ErrFramingError, total)
	}
	rest := make([]byte, total-4)
	if _, err := io.ReadFull(s.conn, rest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	block := append(header, rest...)
	if s.metric != nil {
		s.metric.FramesRecv.Inc()
		s.metric.BytesRecv.Add(float64(len(block)))
	}
	return block, nil
}
