package headers

import (
	"fmt"

	"github.com/hasplink/njeclient/internal/ebcdic"
)

// SRCB high-nibble classes for SYSIN/SYSOUT stream records.
const (
	SRCBStandard      = 0x80
	SRCBJobHeader     = 0xC0
	SRCBDataSetHeader = 0xE0
	SRCBJobTrailer    = 0xD0
)

// SYSOUT carriage-control modes, SRCB bits 5..4.
const (
	CarriageControlNone    = 0x00
	CarriageControlMachine = 0x01
	CarriageControlASA     = 0x02
	CarriageControlCPDS    = 0x03
)

// Class returns the SRCB's high-nibble record class.
func Class(srcb byte) byte { return srcb & 0xF0 }

// CarriageControl extracts the carriage-control mode from a SYSOUT
// SRCB (bits 5..4).
func CarriageControl(srcb byte) byte { return (srcb >> 4) & 0x03 }

// StandardRecord is a plain SYSIN/SYSOUT text record (SRCB 0x80): a
// length byte followed by EBCDIC text.
type StandardRecord struct {
	Text string
}

// DecodeStandardRecord parses a length-prefixed EBCDIC text record.
func DecodeStandardRecord(d []byte) (StandardRecord, error) {
	if len(d) < 1 {
		return StandardRecord{}, fmt.Errorf("headers: standard record missing length byte")
	}
	n := int(d[0])
	if len(d) < 1+n {
		return StandardRecord{}, fmt.Errorf("headers: standard record declares %d bytes, only %d available", n, len(d)-1)
	}
	return StandardRecord{Text: ebcdic.ToASCIIString(d[1 : 1+n])}, nil
}

// jclLineRecordLength is the fixed record-length byte every outbound
// SYSIN JCL line carries (0x50 = 80, standard card-image width),
// regardless of the actual line length.
const jclLineRecordLength = 0x50

// EncodeJCLLine renders one outbound SYSIN JCL line: the fixed
// record-length byte followed by the EBCDIC text.
func EncodeJCLLine(line string) []byte {
	body := ebcdic.ToEBCDIC([]byte(line))
	out := make([]byte, 0, 1+len(body))
	return append(append(out, jclLineRecordLength), body...)
}
