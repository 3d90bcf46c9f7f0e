package headers

import (
	"encoding/binary"
	"fmt"

	"github.com/hasplink/njeclient/internal/ebcdic"
)

// generalSectionLen is the fixed 0xD4-byte length of the NJH general
// section (job id through network type, NJHGLEN field value itself).
const generalSectionLen = 0xD4

// JobHeaderGeneral is the NJH general section: job identity, routing
// and accounting fields common to every submitted job.
type JobHeaderGeneral struct {
	JobID           int16
	JobClass        string
	MessageClass    string
	Flags           byte // F1PR/F1CF/F1CA/F1PE/F1NE
	Priority        byte
	OriginQueue     byte
	JobCopies       byte
	HopCount        int16
	Accounting      string
	JobName         string
	UserID          string
	Password        string
	NewPassword     string
	EntryTimestamp  [8]byte // STCK format
	OriginNode      string
	OriginUser      string
	ExecutionNode   string
	ExecutionUser   string
	PrinterNode     string
	PrinterUser     string
	PunchNode       string
	PunchUser       string
	FormName        string
	CardLimit       int32
	TimeLimit       int32
	LineLimit       int32
	RecordLimit     int32
	ProgrammerName  string // 20 EBCDIC bytes
	Room            string
	Department      string
	Building        string
	RecordCount     int32
	JobNumber       int32
	NetworkType     string
}

// JES2Section is NJH sub-section type 0x84.
type JES2Section struct {
	Accounting  [4]byte
	UserID      string
	User        string
	Group       string
	SubmitUser  string
	SubmitGroup string
}

// SchedulingSection is NJH sub-section type 0x8A.
type SchedulingSection struct {
	Page int32
	Byte int32
}

// SecuritySection is NJH sub-section type 0x8C. ToUser/ToGroup are the
// identity the client is submitting on behalf of.
type SecuritySection struct {
	PunchOrigin byte
	ToUser      string // NJHTOUSR
	ToGroup     string // NJHTOGRP
}

// AccountingSection is NJH sub-section type 0x8D.
type AccountingSection struct {
	Text string
}

// JobHeader is the fully decoded NJH record (RCB low-nibble 0x08, SRCB
// high nibble 0xC0): general section plus recognized sub-sections.
type JobHeader struct {
	General    JobHeaderGeneral
	JES2       *JES2Section
	Scheduling *SchedulingSection
	Security   *SecuritySection
	Accounting *AccountingSection
}

// DecodeJobHeader parses an NJH payload as it arrives after
// record.MergeContinuations: a 4-byte outer NJHLEN/NJHFLAGS/NJHSEQ
// wrapper (the same split/continuation prefix used at the record
// layer), followed by the general section and its sub-sections.
func DecodeJobHeader(d []byte) (JobHeader, error) {
	if len(d) < 4 {
		return JobHeader{}, fmt.Errorf("headers: NJH payload too short for outer wrapper")
	}
	d = d[4:]
	if len(d) < generalSectionLen {
		return JobHeader{}, fmt.Errorf("headers: NJH general section needs %d bytes, got %d", generalSectionLen, len(d))
	}
	g := JobHeaderGeneral{
		JobID:          int16(binary.BigEndian.Uint16(d[4:6])),
		JobClass:       ebcdic.ToASCIIString(d[6:7]),
		MessageClass:   ebcdic.ToASCIIString(d[7:8]),
		Flags:          d[8],
		Priority:       d[9],
		OriginQueue:    d[10],
		JobCopies:      d[11],
		HopCount:       int16(binary.BigEndian.Uint16(d[14:16])),
		Accounting:     ebcdic.UnpadName(d[16:24]),
		JobName:        ebcdic.UnpadName(d[24:32]),
		UserID:         ebcdic.UnpadName(d[32:40]),
		Password:       ebcdic.UnpadName(d[40:48]),
		NewPassword:    ebcdic.UnpadName(d[48:56]),
		OriginNode:     ebcdic.UnpadName(d[64:72]),
		OriginUser:     ebcdic.UnpadName(d[72:80]),
		ExecutionNode:  ebcdic.UnpadName(d[80:88]),
		ExecutionUser:  ebcdic.UnpadName(d[88:96]),
		PrinterNode:    ebcdic.UnpadName(d[96:104]),
		PrinterUser:    ebcdic.UnpadName(d[104:112]),
		PunchNode:      ebcdic.UnpadName(d[112:120]),
		PunchUser:      ebcdic.UnpadName(d[120:128]),
		FormName:       ebcdic.UnpadName(d[128:136]),
		CardLimit:      int32(binary.BigEndian.Uint32(d[136:140])),
		TimeLimit:      int32(binary.BigEndian.Uint32(d[140:144])),
		LineLimit:      int32(binary.BigEndian.Uint32(d[144:148])),
		RecordLimit:    int32(binary.BigEndian.Uint32(d[148:152])),
		ProgrammerName: ebcdic.UnpadName(d[152:172]),
		Room:           ebcdic.UnpadName(d[172:180]),
		Department:     ebcdic.UnpadName(d[180:188]),
		Building:       ebcdic.UnpadName(d[188:196]),
		RecordCount:    int32(binary.BigEndian.Uint32(d[196:200])),
		JobNumber:      int32(binary.BigEndian.Uint32(d[200:204])),
		NetworkType:    ebcdic.UnpadName(d[204:212]),
	}
	copy(g.EntryTimestamp[:], d[56:64])
	hdr := JobHeader{General: g}

	rest := d[generalSectionLen:]
	for len(rest) > 1 {
		if len(rest) < 4 {
			break
		}
		secType := rest[2]
		secLen := int(binary.BigEndian.Uint16(rest[0:2]))
		if secLen <= 0 || secLen > len(rest) {
			break
		}
		body := rest[:secLen]
		switch secType {
		case 0x8A:
			if len(body) < 12 {
				return hdr, fmt.Errorf("headers: scheduling section truncated")
			}
			hdr.Scheduling = &SchedulingSection{
				Page: int32(binary.BigEndian.Uint32(body[4:8])),
				Byte: int32(binary.BigEndian.Uint32(body[8:12])),
			}
		case 0x8C:
			if len(body) < 88 {
				return hdr, fmt.Errorf("headers: security section truncated")
			}
			hdr.Security = &SecuritySection{
				PunchOrigin: body[13],
				ToUser:      ebcdic.UnpadName(body[72:80]),
				ToGroup:     ebcdic.UnpadName(body[80:88]),
			}
		case 0x8D:
			if len(body) < 12 {
				return hdr, fmt.Errorf("headers: accounting section truncated")
			}
			recLen := int(body[11])
			if 12+recLen > len(body) {
				recLen = len(body) - 12
			}
			hdr.Accounting = &AccountingSection{Text: ebcdic.ToASCIIString(body[12 : 12+recLen])}
		case 0x84:
			if len(body) < 52 {
				return hdr, fmt.Errorf("headers: JES2 section truncated")
			}
			var acct [4]byte
			copy(acct[:], body[8:12])
			hdr.JES2 = &JES2Section{
				Accounting:  acct,
				UserID:      ebcdic.UnpadName(body[12:20]),
				User:        ebcdic.UnpadName(body[20:28]),
				Group:       ebcdic.UnpadName(body[28:36]),
				SubmitUser:  ebcdic.UnpadName(body[36:44]),
				SubmitGroup: ebcdic.UnpadName(body[44:52]),
			}
		}
		rest = rest[secLen:]
	}
	return hdr, nil
}
