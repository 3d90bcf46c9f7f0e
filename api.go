package njeclient

import (
	"fmt"
	"io"
	"strings"

	"github.com/hasplink/njeclient/internal/headers"
	"github.com/hasplink/njeclient/internal/record"
	"github.com/hasplink/njeclient/internal/transport"
	"github.com/hasplink/njeclient/internal/wire"
)

// SendMessage sends a console message, or a user-directed message if
// user is non-empty, then signs off.
func (s *Session) SendMessage(text string, user string) error {
	if s.state != stateSignedOn {
		return ErrNotSignedOn
	}

	var nmr headers.NMR
	if user == "" {
		nmr = headers.NewConsoleNMR(s.remoteName, s.localName, text)
	} else {
		nmr = headers.NewUserNMR(s.remoteName, s.localName, user, text)
	}
	nmr.RemoteQualifier = s.remoteNode
	nmr.LocalQualifier = s.localNode

	if err := s.sendRecord(record.Tuple{RCB: 0x9A, SRCB: 0x00, Data: nmr.Encode(), Compress: true}); err != nil {
		return err
	}
	return s.Signoff()
}

// SendCommand sends an operator command NMR, collects the reply
// NMR(s), signs off, and returns the concatenated reply text.
func (s *Session) SendCommand(text string) (string, error) {
	if s.state != stateSignedOn {
		return "", ErrNotSignedOn
	}

	nmr := headers.NewCommandNMR(s.remoteName, s.localName, text)
	nmr.RemoteQualifier = s.remoteNode
	nmr.LocalQualifier = s.localNode

	before := len(s.nmrs)
	if err := s.sendRecord(record.Tuple{RCB: 0x9A, SRCB: 0x00, Data: nmr.Encode(), Compress: true}); err != nil {
		return "", err
	}

	for {
		block, err := s.readBlock()
		if err != nil {
			return "", err
		}
		result, err := s.dispatchBlock(block)
		if err != nil {
			return "", err
		}
		if result.gotNMR || result.signedOff {
			break
		}
	}

	var replies []string
	for _, r := range s.nmrs[before:] {
		replies = append(replies, r.Message)
	}

	if err := s.Signoff(); err != nil {
		return "", err
	}
	return strings.Join(replies, "\n"), nil
}

// Analyze parses a captured byte dump offline, populating the
// collected NMR/SYSIN/SYSOUT slices without any socket I/O. r must
// contain a sequence of TTB blocks as they would appear on the wire.
func (s *Session) Analyze(r io.Reader) error {
	s.offline = true
	for {
		header := make([]byte, 4)
		if _, err := io.ReadFull(r, header); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		total, err := wire.ReadTTB(header)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFramingError, err)
		}
		rest := make([]byte, total-4)
		if _, err := io.ReadFull(r, rest); err != nil {
			return fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		if _, err := s.dispatchBlock(append(header, rest...)); err != nil {
			return err
		}
	}
}

// AnalyzeBytes is a convenience wrapper around Analyze for a captured
// byte slice, using transport.ByteConn as the offline replay seam.
func (s *Session) AnalyzeBytes(data []byte) error {
	conn := transport.NewByteConn(data)
	s.conn = conn
	return s.Analyze(conn)
}
