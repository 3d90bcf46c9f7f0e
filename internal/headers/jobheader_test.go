package headers

import (
	"testing"

	"github.com/hasplink/njeclient/internal/ebcdic"
	"github.com/hasplink/njeclient/internal/record"
	"github.com/stretchr/testify/require"
)

func testSubmission() JobSubmission {
	return JobSubmission{
		JobNumber:    49,
		LineCount:    3,
		JobClass:     "A",
		MessageClass: "K",
		JobName:      "MYJOB01",
		Accounting:   "12345",
		Programmer:   "J DOE",
		UserID:       "ibmuser",
		Group:        "sys1",
		RHOST:        ebcdic.PadName("ZM15"),
		OHOST:        ebcdic.PadName("CLASS"),
		TargetNode:   0x01,
		OwnNode:      0x01,
	}
}

func TestBuildJobHeaderPartsSplitsAt253(t *testing.T) {
	first, second := BuildJobHeaderParts(testSubmission())
	require.Len(t, first, 253)
	require.Equal(t, byte(0x00), first[0])
	require.Equal(t, byte(0xFD), first[1])
	require.Equal(t, byte(0x80), first[3], "first part sequence flag must signal continuation")
	require.Equal(t, byte(0x00), second[2])
	require.Equal(t, byte(0x01), second[3], "second part sequence must be 0x01")
}

func TestBuildAndDecodeJobHeaderRoundTrip(t *testing.T) {
	sub := testSubmission()
	first, second := BuildJobHeaderParts(sub)

	merged := record.MergeContinuations([]record.Tuple{
		{RCB: 0x98, SRCB: 0xC0, Data: first},
		{RCB: 0x98, SRCB: 0xC0, Data: second},
	})
	require.Len(t, merged, 1)

	hdr, err := DecodeJobHeader(merged[0].Data)
	require.NoError(t, err)
	require.Equal(t, int16(49), hdr.General.JobID)
	require.Equal(t, "A", hdr.General.JobClass)
	require.Equal(t, "K", hdr.General.MessageClass)
	require.Equal(t, "MYJOB01", hdr.General.JobName)
	require.Equal(t, "IBMUSER", hdr.General.UserID)
	require.Equal(t, "ZM15", hdr.General.OriginNode)
	require.Equal(t, "CLASS", hdr.General.ExecutionNode)
	require.Equal(t, "J DOE", hdr.General.ProgrammerName)

	require.NotNil(t, hdr.JES2)
	require.NotNil(t, hdr.Scheduling)
	require.NotNil(t, hdr.Accounting)
	require.Equal(t, "12345", hdr.Accounting.Text)
	require.NotNil(t, hdr.Security)
	require.Equal(t, "IBMUSER", hdr.Security.ToUser)
	require.Equal(t, "SYS1", hdr.Security.ToGroup)
}

func TestBuildJobTrailerLength(t *testing.T) {
	trailer := BuildJobTrailer()
	require.Len(t, trailer, 52)
}
