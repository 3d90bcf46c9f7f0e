package headers

import (
	"encoding/binary"

	"github.com/hasplink/njeclient/internal/ebcdic"
)

// JobSubmission carries the fields needed to build an outbound NJH for
// sendJCL: identity of the job, the submitting user/group, and the
// node names/qualifiers the session negotiated during signon.
type JobSubmission struct {
	JobNumber    int16
	LineCount    int32
	JobClass     string
	MessageClass string
	JobName      string
	Accounting   string
	Programmer   string
	UserID       string
	Group        string

	// Node identity, owned by the session: RHOST/OHOST are the
	// 8-byte padded EBCDIC node names, TargetNode/OwnNode are the
	// one-byte node-number qualifiers exchanged during signon.
	RHOST      [8]byte
	OHOST      [8]byte
	TargetNode byte
	OwnNode    byte
}

// placeholder timestamp/limit fields the header carries but this
// client does not compute from real job-accounting data; fixed values
// matching what every submission from this client has always sent.
var (
	placeholderEntryTimestamp = [8]byte{0xd0, 0x24, 0xfe, 0x11, 0xe1, 0xea, 0x10, 0x00}
	placeholderTimeLimit      = [4]byte{0x00, 0x00, 0x00, 0x78} // NJHGETIM
	placeholderLineLimit      = [4]byte{0x00, 0x00, 0x2E, 0xE0} // NJHGELIN
	placeholderCardLimit      = [4]byte{0x00, 0x00, 0x00, 0x64} // NJHGECRD
)

// buildGeneralSection renders the NJH general section (0xD4 = 212
// bytes, including its own 4-byte length/type/mod prefix).
func buildGeneralSection(sub JobSubmission) []byte {
	out := make([]byte, 0, generalSectionLen)
	out = append(out, 0x00, 0xD4, 0x00, 0x00)

	var jid [2]byte
	binary.BigEndian.PutUint16(jid[:], uint16(sub.JobNumber))
	out = append(out, jid[:]...)

	out = append(out, ebcdic.ToEBCDIC([]byte(sub.JobClass))[0])
	out = append(out, ebcdic.ToEBCDIC([]byte(sub.MessageClass))[0])
	out = append(out, 0x40)            // NJHGFLG1
	out = append(out, 0x09)            // NJHGPRIO
	out = append(out, sub.TargetNode)  // NJHGORGQ
	out = append(out, 0x01)            // NJHGJCPY
	out = append(out, 0x00)            // NJHGLNCT
	out = append(out, 0x00)            // reserved
	out = append(out, 0x00, 0x00)      // NJHGHOPS
	out = append(out, make([]byte, 8)...) // NJHGACCT

	jnam := ebcdic.PadName(sub.JobName)
	out = append(out, jnam[:]...)
	usid := ebcdic.PadName(sub.UserID)
	out = append(out, usid[:]...)
	out = append(out, make([]byte, 8)...) // NJHGPASS
	out = append(out, make([]byte, 8)...) // NJHGNPAS
	out = append(out, placeholderEntryTimestamp[:]...)

	out = append(out, sub.RHOST[:]...) // NJHGORGN
	orgr := ebcdic.PadName(sub.UserID)
	out = append(out, orgr[:]...) // NJHGORGR
	out = append(out, sub.OHOST[:]...)       // NJHGXEQN
	out = append(out, spaces(8)...)          // NJHGXEQU
	out = append(out, sub.RHOST[:]...)       // NJHGPRTN
	out = append(out, sub.RHOST[:]...)       // NJHGPRTR
	out = append(out, sub.RHOST[:]...)       // NJHGPUNN
	out = append(out, spaces(8)...)          // NJHGPUNR
	form := ebcdic.PadName("STD")
	out = append(out, form[:]...) // NJHGFORM

	var icrd [4]byte
	binary.BigEndian.PutUint32(icrd[:], uint32(sub.LineCount))
	out = append(out, icrd[:]...)
	out = append(out, placeholderTimeLimit[:]...)
	out = append(out, placeholderLineLimit[:]...)
	out = append(out, placeholderCardLimit[:]...)

	prog := ebcdic.ToEBCDIC([]byte(sub.Programmer))
	progField := make([]byte, 20)
	n := copy(progField, prog)
	for i := n; i < 20; i++ {
		progField[i] = ebcdic.Space
	}
	out = append(out, progField...)

	out = append(out, spaces(8)...) // NJHGROOM
	out = append(out, spaces(8)...) // NJHGDEPT
	out = append(out, spaces(8)...) // NJHGBLDG
	out = append(out, make([]byte, 4)...) // NJHGNREC

	var jno [4]byte
	binary.BigEndian.PutUint32(jno[:], uint32(sub.JobNumber))
	out = append(out, jno[:]...)
	out = append(out, sub.RHOST[:]...) // NJHGNTYN

	return out
}

func spaces(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ebcdic.Space
	}
	return b
}

// buildJES2Section is NJH sub-section 0x84: length 0x34, all-zero body
// beyond the type byte. The peer JES2 subsystem fills in accounting
// and submitter identity server-side; this client sends zeros.
func buildJES2Section() []byte {
	out := make([]byte, 0, 0x34)
	out = append(out, 0x00, 0x34, 0x84)
	out = append(out, make([]byte, 0x34-3)...)
	return out
}

// buildSchedulingSection is NJH sub-section 0x8A.
func buildSchedulingSection() []byte {
	return []byte{0x00, 0x0C, 0x8A, 0x00, 0x00, 0x00, 0x00, 0x28, 0x05, 0xF5, 0xDD, 0x18}
}

// buildAccountingSection is NJH sub-section 0x8D, carrying the JOB
// card's accounting-field text.
func buildAccountingSection(acc string) []byte {
	accEBCDIC := ebcdic.ToEBCDIC([]byte(acc))
	inner := []byte{0x8D, 0x00, 0x00, 0x00, 0x00, 0x08}
	var jlen [2]byte
	binary.BigEndian.PutUint16(jlen[:], uint16(len(accEBCDIC)+2))
	inner = append(inner, jlen...)
	inner = append(inner, 0x01, byte(len(accEBCDIC)))
	inner = append(inner, accEBCDIC...)

	var outerLen [2]byte
	binary.BigEndian.PutUint16(outerLen[:], uint16(len(inner)+2))
	return append(outerLen[:], inner...)
}

// buildSecuritySection is NJH sub-section 0x8C, establishing the
// submitting user/group identity the peer will authorize against.
func buildSecuritySection(sub JobSubmission) []byte {
	prefix := []byte{0x00, 0x58, 0x8C, 0x00, 0x00, 0x04, 0x00, 0x00}

	body := []byte{0x50, 0x01, 0x32, 0x07, 0x00}
	body = append(body, 0x03, 0xC0, 0x00)
	body = append(body, make([]byte, 8)...) // reserved
	body = append(body, sub.RHOST[:]...)    // NJHTCNOD
	body = append(body, make([]byte, 24)...)
	poen := ebcdic.PadName("INTRDR")
	body = append(body, poen[:]...)
	body = append(body, make([]byte, 8)...) // reserved

	touser := ebcdic.PadName(sub.UserID)
	togroup := ebcdic.PadName(sub.Group)
	body = append(body, touser[:]...)
	body = append(body, togroup[:]...)

	return append(prefix, body...)
}

// BuildJobHeaderParts assembles the full NJH (general + JES2 +
// scheduling + accounting + security) and splits it at the 253-byte
// record-payload budget into the two-record NJH sequence: the first
// part is exactly 253 bytes with sequence flag 0x80 (continuation
// follows), the second carries the remainder with sequence 0x01.
func BuildJobHeaderParts(sub JobSubmission) (first, second []byte) {
	header := buildGeneralSection(sub)
	header = append(header, buildJES2Section()...)
	header = append(header, buildSchedulingSection()...)
	header = append(header, buildAccountingSection(sub.Accounting)...)
	header = append(header, buildSecuritySection(sub)...)

	full := append([]byte{0x00, 0xFD, 0x00, 0x80}, header...)

	const splitAt = 253
	first = full[:splitAt]
	tail := full[splitAt:]

	var tailLen [2]byte
	binary.BigEndian.PutUint16(tailLen[:], uint16(len(tail)+4))
	second = append(append(tailLen[:], 0x00, 0x01), tail...)
	return first, second
}

// BuildJobTrailer is the 52-byte NJT skeleton sent to close out a
// SYSIN submission.
func BuildJobTrailer() []byte {
	out := []byte{0x00, 0x34, 0x00, 0x00, 0x00, 0x30}
	return append(out, make([]byte, 46)...)
}
