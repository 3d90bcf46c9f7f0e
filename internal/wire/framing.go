// Package wire implements the NJE block/record length framing (TTB/TTR),
// the BCB sequence counter, and SCB run-length compression. These are
// pure functions over byte buffers; nothing here touches a socket.
package wire

import (
	"encoding/binary"
	"fmt"
)

// ttbHeaderLen is the 8-byte TTB header (00 00 LEN_hi LEN_lo 00 00 00 00).
const ttbHeaderLen = 8

// ttbTrailerLen is the 4-byte zero TTB trailer.
const ttbTrailerLen = 4

// ttbOverhead is what a TTB length counts beyond the wrapped data: its
// own 8-byte header plus the 4-byte trailer.
const ttbOverhead = ttbHeaderLen + ttbTrailerLen

// ttrHeaderLen is the 4-byte TTR header (00 00 LEN_hi LEN_lo).
const ttrHeaderLen = 4

// MakeTTB wraps data in a Transmission Block: an 8-byte header carrying
// the total block length (header + data + trailer), the data itself,
// and a 4-byte zero trailer.
func MakeTTB(data []byte) []byte {
	out := make([]byte, 0, ttbOverhead+len(data))
	out = append(out, 0, 0, 0, 0, 0, 0, 0, 0)
	binary.BigEndian.PutUint16(out[2:4], uint16(len(data)+ttbOverhead))
	out = append(out, data...)
	out = append(out, 0, 0, 0, 0)
	return out
}

// MakeTTR wraps data in a Transmission Record header carrying only the
// record's own payload length (no trailer).
func MakeTTR(data []byte) []byte {
	out := make([]byte, ttrHeaderLen, ttrHeaderLen+len(data))
	binary.BigEndian.PutUint16(out[2:4], uint16(len(data)))
	return append(out, data...)
}

// ReadTTB returns the total block length encoded in a TTB header. buf
// must be at least 4 bytes; only bytes 2:4 are consulted.
func ReadTTB(buf []byte) (int, error) {
	if len(buf) < 4 {
		return 0, fmt.Errorf("wire: TTB header needs 4 bytes, got %d", len(buf))
	}
	return int(binary.BigEndian.Uint16(buf[2:4])), nil
}

// ReadTTR returns the record length encoded in a TTR header. buf must be
// at least 4 bytes; only bytes 2:4 are consulted.
func ReadTTR(buf []byte) (int, error) {
	if len(buf) < 4 {
		return 0, fmt.Errorf("wire: TTR header needs 4 bytes, got %d", len(buf))
	}
	return int(binary.BigEndian.Uint16(buf[2:4])), nil
}

// TTBOverhead returns the number of bytes a TTB adds beyond the wrapped
// data (header + trailer), i.e. ReadTTB(MakeTTB(data)) - len(data).
func TTBOverhead() int { return ttbOverhead }

// TTBBlockContent strips the 8-byte header and 4-byte trailer from a
// complete TTB block (as produced by MakeTTB) and returns the data that
// was wrapped.
func TTBBlockContent(block []byte) ([]byte, error) {
	if len(block) < ttbOverhead {
		return nil, fmt.Errorf("wire: TTB block shorter than overhead (%d < %d)", len(block), ttbOverhead)
	}
	return block[ttbHeaderLen : len(block)-ttbTrailerLen], nil
}
