package njeclient

import (
	"fmt"

	"github.com/hasplink/njeclient/internal/headers"
	"github.com/hasplink/njeclient/internal/record"
)

// dispatchResult tells a caller driving the loop (SendCommand, SendJCL,
// the plain dispatch loop) what just happened, without forcing every
// caller to re-inspect the session's collections.
type dispatchResult struct {
	signedOff    bool
	streamOpen   bool
	streamClosed bool
	gotSYSOUT    bool
	gotNMR       bool
}

// dispatchBlock decodes one inbound TTB block and routes each tuple per
// the RCB table: stream control records, the general NCCR letters,
// NMR, and SYSIN/SYSOUT by RCB low nibble. A block that fails to decode
// is logged and discarded, so the caller's dispatch loop continues.
func (s *Session) dispatchBlock(block []byte) (dispatchResult, error) {
	var result dispatchResult

	records, err := record.DecodeBlock(block)
	if err != nil {
		s.log.Warnf("framing error decoding block, discarding it: %v", err)
		return result, nil
	}

	for _, rec := range records {
		if rec.Heartbeat {
			if err := s.replyHeartbeat(); err != nil {
				return result, err
			}
			continue
		}

		tuples := record.MergeContinuations(rec.Tuples)
		for _, t := range tuples {
			r, err := s.dispatchTuple(t)
			if err != nil {
				s.log.Warnf("dispatch error for RCB %#x SRCB %#x: %v", t.RCB, t.SRCB, err)
				continue
			}
			result.signedOff = result.signedOff || r.signedOff
			result.streamOpen = result.streamOpen || r.streamOpen
			result.streamClosed = result.streamClosed || r.streamClosed
			result.gotSYSOUT = result.gotSYSOUT || r.gotSYSOUT
			result.gotNMR = result.gotNMR || r.gotNMR
		}
	}
	return result, nil
}

func (s *Session) replyHeartbeat() error {
	frame := record.Heartbeat(s.nextBCB(), s.fcs)
	if _, err := s.conn.Write(frame); err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if s.metric != nil {
		s.metric.Heartbeats.Inc()
	}
	return nil
}

func (s *Session) dispatchTuple(t record.Tuple) (dispatchResult, error) {
	var result dispatchResult

	switch {
	case t.RCB == 0x00:
		// end-of-block sentinel, nothing to route

	case t.RCB == 0x90:
		if err := s.sendRecord(record.Tuple{RCB: 0xA0, SRCB: t.SRCB, Data: []byte{0x00, 0x00}}); err != nil {
			return result, err
		}

	case t.RCB == 0xA0:
		result.streamOpen = true
		s.streamOpen = true

	case t.RCB == 0xB0:
		s.streamOpen = false

	case t.RCB == 0xC0:
		// acknowledge transmission complete, logging only

	case t.RCB == 0xD0:
		// ready to receive, logging only

	case t.RCB == 0xE0:
		s.log.Warn("peer reported BCB sequence error")

	case t.RCB == 0xF0:
		return s.dispatchNCCR(t)

	case t.RCB == 0x9A:
		nmr, err := headers.DecodeNMR(t.Data)
		if err != nil {
			return result, err
		}
		s.nmrs = append(s.nmrs, nmr)
		result.gotNMR = true

	case t.RCB&0x0F == 0x08:
		rec, closed, err := s.decodeSYSIN(t)
		if err != nil {
			return result, err
		}
		s.sysin = append(s.sysin, rec)
		result.streamClosed = closed

	case t.RCB&0x0F == 0x09:
		rec, err := s.decodeSYSOUT(t)
		if err != nil {
			return result, err
		}
		s.sysout = append(s.sysout, rec)
		result.gotSYSOUT = true
	}
	return result, nil
}

func (s *Session) dispatchNCCR(t record.Tuple) (dispatchResult, error) {
	var result dispatchResult
	switch t.SRCB {
	case nccrSRCBSignoff: // 'B'
		result.signedOff = true
		s.log.Info("peer signed off")
	}
	return result, nil
}

// decodeSYSIN parses an inbound SYSIN-stream tuple by its SRCB high
// nibble, reporting whether this tuple was the stream-close sentinel
// (RCB&0x0F==0x08, SRCB==0x00, empty payload).
func (s *Session) decodeSYSIN(t record.Tuple) (SYSINRecord, bool, error) {
	if t.SRCB == 0x00 {
		return SYSINRecord{SRCB: t.SRCB}, true, nil
	}
	switch headers.Class(t.SRCB) {
	case headers.SRCBJobHeader:
		hdr, err := headers.DecodeJobHeader(t.Data)
		if err != nil {
			return SYSINRecord{}, false, err
		}
		return SYSINRecord{SRCB: t.SRCB, JobHeader: &hdr}, false, nil
	case headers.SRCBJobTrailer:
		trailer, err := headers.DecodeJobTrailer(t.Data)
		if err != nil {
			return SYSINRecord{}, false, err
		}
		return SYSINRecord{SRCB: t.SRCB, JobTrailer: &trailer}, false, nil
	case headers.SRCBStandard:
		sr, err := headers.DecodeStandardRecord(t.Data)
		if err != nil {
			return SYSINRecord{}, false, err
		}
		return SYSINRecord{SRCB: t.SRCB, Text: sr.Text}, false, nil
	default:
		return SYSINRecord{SRCB: t.SRCB, Text: string(t.Data)}, false, nil
	}
}

func (s *Session) decodeSYSOUT(t record.Tuple) (SYSOUTRecord, error) {
	switch headers.Class(t.SRCB) {
	case headers.SRCBDataSetHeader:
		hdr, err := headers.DecodeDataSetHeader(t.Data)
		if err != nil {
			return SYSOUTRecord{}, err
		}
		return SYSOUTRecord{SRCB: t.SRCB, DataSetHeader: &hdr}, nil
	case headers.SRCBJobTrailer:
		trailer, err := headers.DecodeJobTrailer(t.Data)
		if err != nil {
			return SYSOUTRecord{}, err
		}
		return SYSOUTRecord{SRCB: t.SRCB, JobTrailer: &trailer}, nil
	case headers.SRCBStandard:
		sr, err := headers.DecodeStandardRecord(t.Data)
		if err != nil {
			return SYSOUTRecord{}, err
		}
		return SYSOUTRecord{
			SRCB:            t.SRCB,
			Text:            sr.Text,
			CarriageControl: headers.CarriageControl(t.SRCB),
		}, nil
	default:
		return SYSOUTRecord{SRCB: t.SRCB, Text: string(t.Data)}, nil
	}
}
