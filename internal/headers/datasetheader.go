package headers

import (
	"encoding/binary"
	"fmt"

	"github.com/hasplink/njeclient/internal/ebcdic"
)

// DataSetHeader is the decoded NDH record (RCB low-nibble 0x09, SRCB
// high nibble 0xE0): identifies one SYSOUT data set within a job.
type DataSetHeader struct {
	Node       string // NDHGNODE
	Remote     string // NDHGRMT
	ProcStep   string // NDHGPROC
	StepName   string // NDHGSTEP
	DDName     string // NDHGDD
	DataSetNum uint16
	Class      string
	RecordCount int32
	Flags1     byte
	RecordFormat byte
	LRECL      uint16
	FCBImage   byte
	LineCount  byte
	FormName   string
	FCB        string
	UCS        string
	Writer     string
	Name       string
	Flags2     byte
}

// DecodeDataSetHeader parses an NDH payload (after the 4-byte outer
// NDHLEN/NDHFLAGS/NDHSEQ wrapper has been stripped by the caller, same
// convention as DecodeJobHeader).
func DecodeDataSetHeader(d []byte) (DataSetHeader, error) {
	if len(d) < 4 {
		return DataSetHeader{}, fmt.Errorf("headers: NDH payload too short for outer wrapper")
	}
	d = d[4:]
	if len(d) < 101 {
		return DataSetHeader{}, fmt.Errorf("headers: NDH general section needs 101 bytes, got %d", len(d))
	}
	return DataSetHeader{
		Node:         ebcdic.UnpadName(d[4:12]),
		Remote:       ebcdic.UnpadName(d[12:20]),
		ProcStep:     ebcdic.UnpadName(d[20:28]),
		StepName:     ebcdic.UnpadName(d[28:36]),
		DDName:       ebcdic.UnpadName(d[36:44]),
		DataSetNum:   binary.BigEndian.Uint16(d[44:46]),
		Class:        ebcdic.ToASCIIString(d[47:48]),
		RecordCount:  int32(binary.BigEndian.Uint32(d[48:52])),
		Flags1:       d[52],
		RecordFormat: d[53],
		LRECL:        binary.BigEndian.Uint16(d[54:56]),
		FCBImage:     d[57],
		LineCount:    d[58],
		FormName:     ebcdic.UnpadName(d[60:68]),
		FCB:          ebcdic.UnpadName(d[68:76]),
		UCS:          ebcdic.UnpadName(d[76:84]),
		Writer:       ebcdic.UnpadName(d[84:92]),
		Name:         ebcdic.UnpadName(d[92:100]),
		Flags2:       d[100],
	}, nil
}

// JobTrailer is the decoded NJT record (RCB low-nibble 0x08/0x09, SRCB
// high nibble 0xD0): job-level accounting totals sent after the last
// data set of a job.
type JobTrailer struct {
	Type        byte
	Flags1      byte
	ExcessClass byte
	LinesTotal  int32
	CardsTotal  int32
	InputPages  byte
	TotalPages  byte
	InputLines  byte
	TotalLines  byte
	Completion  byte
}

// DecodeJobTrailer parses an NJT payload (outer 4-byte wrapper already
// stripped by the caller).
func DecodeJobTrailer(d []byte) (JobTrailer, error) {
	if len(d) < 4 {
		return JobTrailer{}, fmt.Errorf("headers: NJT payload too short for outer wrapper")
	}
	d = d[4:]
	if len(d) < 45 {
		return JobTrailer{}, fmt.Errorf("headers: NJT general section needs 45 bytes, got %d", len(d))
	}
	return JobTrailer{
		Type:        d[2],
		Flags1:      d[4],
		ExcessClass: d[5],
		LinesTotal:  int32(binary.BigEndian.Uint32(d[28:32])),
		CardsTotal:  int32(binary.BigEndian.Uint32(d[32:36])),
		InputPages:  d[40],
		TotalPages:  d[41],
		InputLines:  d[42],
		TotalLines:  d[43],
		Completion:  d[44],
	}, nil
}
