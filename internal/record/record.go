// Package record assembles and parses DLE-STX framed NJE records: the
// RCB/SRCB/payload tuples carried inside a TTR, themselves wrapped in a
// TTB. It layers directly on internal/wire's framing and SCB codecs and
// knows nothing about header contents or session state.
package record

import (
	"fmt"

	"github.com/hasplink/njeclient/internal/wire"
)

// Tuple is one RCB/SRCB/payload unit within an NJE record. Compress
// marks whether Data should be (or was) SCB-compressed on the wire;
// callers normally derive it from wire.Compressed(RCB) but may override
// it, mirroring the explicit compress argument the NJE send routine
// takes on the wire.
type Tuple struct {
	RCB, SRCB byte
	Data      []byte
	Compress  bool
}

// Record is one decoded DLE-STX frame: either a heartbeat (no tuples)
// or a BCB/FCS pair plus the tuples it carried.
type Record struct {
	BCB       wire.BCB
	FCS       uint16
	Heartbeat bool
	Tuples    []Tuple
}

// dleStx are the two framing bytes that open every non-heartbeat,
// non-OPEN NJE record.
const (
	dle = 0x10
	stx = 0x02
)

// endOfRecord is the sentinel RCB terminating every DLE-STX frame.
const endOfRecord = 0x00

// EncodeRecord builds a complete TTB-wrapped record carrying one or more
// tuples under a single BCB/FCS, compressing each tuple whose Compress
// flag is set (segmenting it into multiple RCB/SRCB groups if its data
// does not fit the 253-byte SCB budget), and appends the end-of-record
// sentinel. This covers both the "outbound single record" and
// "outbound batched record" cases from the wire description: they
// differ only in how many tuples are passed.
func EncodeRecord(bcb wire.BCB, fcs uint16, tuples ...Tuple) []byte {
	payload := make([]byte, 0, 64)
	payload = append(payload, dle, stx, byte(bcb), byte(fcs>>8), byte(fcs))

	for _, t := range tuples {
		if !t.Compress {
			payload = append(payload, t.RCB, t.SRCB)
			payload = append(payload, t.Data...)
			continue
		}
		remaining := t.Data
		for {
			segment, left := wire.SCBCompress(remaining)
			payload = append(payload, t.RCB, t.SRCB)
			payload = append(payload, segment...)
			if left == 0 {
				break
			}
			remaining = remaining[len(remaining)-left:]
		}
	}

	payload = append(payload, endOfRecord)
	return wire.MakeTTB(wire.MakeTTR(payload))
}

// Heartbeat builds the 22-byte TTB reply to an inbound heartbeat: a
// DLE-STX frame carrying no tuples at all.
func Heartbeat(bcb wire.BCB, fcs uint16) []byte {
	return EncodeRecord(bcb, fcs)
}

// DecodeBlock parses one complete TTB block (as delimited by ReadTTB)
// into its constituent records.
func DecodeBlock(block []byte) ([]Record, error) {
	content, err := wire.TTBBlockContent(block)
	if err != nil {
		return nil, err
	}

	var records []Record
	for len(content) > 0 {
		n, err := wire.ReadTTR(content)
		if err != nil {
			return records, err
		}
		if len(content) < 4+n {
			return records, fmt.Errorf("record: TTR declares %d bytes, only %d available", n, len(content)-4)
		}
		payload := content[4 : 4+n]
		content = content[4+n:]

		rec, err := decodeRecord(payload)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeRecord parses a single TTR payload into a Record: a length-6
// payload is the heartbeat case, anything else must open with DLE-STX.
func decodeRecord(payload []byte) (Record, error) {
	if len(payload) == 6 {
		return Record{Heartbeat: true}, nil
	}
	if len(payload) < 5 || payload[0] != dle || payload[1] != stx {
		return Record{}, fmt.Errorf("record: payload of length %d missing DLE-STX frame", len(payload))
	}

	bcb := wire.BCB(payload[2])
	fcs := uint16(payload[3])<<8 | uint16(payload[4])
	body := payload[5:]

	var tuples []Tuple
	for len(body) > 0 {
		if body[0] == endOfRecord {
			break
		}
		if len(body) < 2 {
			return Record{}, fmt.Errorf("record: truncated RCB/SRCB pair")
		}
		rcb, srcb := body[0], body[1]
		body = body[2:]

		if wire.Compressed(rcb) {
			data, consumed := wire.SCBDecompress(body)
			tuples = append(tuples, Tuple{RCB: rcb, SRCB: srcb, Data: data, Compress: true})
			body = body[consumed:]
			continue
		}
		// An uncompressed payload runs to the end of the record, minus
		// the end-of-record sentinel.
		data := body
		if n := len(data); n > 0 && data[n-1] == endOfRecord {
			data = data[:n-1]
		}
		tuples = append(tuples, Tuple{RCB: rcb, SRCB: srcb, Data: data})
		body = nil
	}

	return Record{BCB: bcb, FCS: fcs, Tuples: tuples}, nil
}

// MergeContinuations implements the continuation rule: when two
// consecutive tuples share RCB and SRCB and the first carried exactly
// 253 bytes, the second is a continuation whose leading 4-byte sequence
// prefix is stripped before concatenating it onto the first.
func MergeContinuations(tuples []Tuple) []Tuple {
	out := make([]Tuple, 0, len(tuples))
	for i := 0; i < len(tuples); i++ {
		t := tuples[i]
		if i+1 < len(tuples) {
			next := tuples[i+1]
			if next.RCB == t.RCB && next.SRCB == t.SRCB && len(t.Data) == 253 {
				merged := make([]byte, 0, len(t.Data)+len(next.Data))
				merged = append(merged, t.Data...)
				merged = append(merged, stripSequencePrefix(next.Data)...)
				out = append(out, Tuple{RCB: t.RCB, SRCB: t.SRCB, Data: merged})
				i++
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func stripSequencePrefix(data []byte) []byte {
	if len(data) < 4 {
		return data
	}
	return data[4:]
}
