package record

import (
	"testing"

	"github.com/hasplink/njeclient/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSingleRecordRoundTrip(t *testing.T) {
	block := EncodeRecord(wire.InitialBCB, 0xC000, Tuple{RCB: 0xF0, SRCB: 'I', Data: []byte("HELLO")})

	records, err := DecodeBlock(block)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.False(t, records[0].Heartbeat)
	require.Equal(t, wire.InitialBCB, records[0].BCB)
	require.Equal(t, uint16(0xC000), records[0].FCS)
	require.Len(t, records[0].Tuples, 1)
	require.Equal(t, byte(0xF0), records[0].Tuples[0].RCB)
	require.Equal(t, byte('I'), records[0].Tuples[0].SRCB)
	require.Equal(t, []byte("HELLO"), records[0].Tuples[0].Data)
}

func TestEncodeDecodeBatchedRecordRoundTrip(t *testing.T) {
	block := EncodeRecord(wire.InitialBCB, 0,
		Tuple{RCB: 0x98, SRCB: 0x80, Data: []byte("JOB HEADER"), Compress: true},
		Tuple{RCB: 0x98, SRCB: 0x40, Data: []byte("//JCL CARD"), Compress: true},
		Tuple{RCB: 0x98, SRCB: 0xC0, Data: []byte("JOB TRAILER"), Compress: true},
	)

	records, err := DecodeBlock(block)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Tuples, 3)
	require.Equal(t, []byte("JOB HEADER"), records[0].Tuples[0].Data)
	require.Equal(t, []byte("//JCL CARD"), records[0].Tuples[1].Data)
	require.Equal(t, []byte("JOB TRAILER"), records[0].Tuples[2].Data)
}

func TestEncodeDecodeCompressedTupleRoundTrip(t *testing.T) {
	data := []byte{0x40, 0x40, 0x40, 0xC1, 0xC1, 0xC1, 'X'}
	block := EncodeRecord(wire.InitialBCB, 0, Tuple{RCB: 0x9A, SRCB: 0x00, Data: data, Compress: true})

	records, err := DecodeBlock(block)
	require.NoError(t, err)
	require.Len(t, records[0].Tuples, 1)
	require.Equal(t, data, records[0].Tuples[0].Data)
}

func TestDecodeHeartbeat(t *testing.T) {
	block := Heartbeat(wire.InitialBCB, 0xAAAA)
	require.Len(t, block, 22)

	records, err := DecodeBlock(block)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].Heartbeat)
}

func TestDecodeBlockMultipleRecords(t *testing.T) {
	r1 := EncodeRecord(wire.InitialBCB, 0, Tuple{RCB: 0xF0, SRCB: 'I', Data: []byte("A")})
	r2 := EncodeRecord(wire.InitialBCB.Next(), 0, Tuple{RCB: 0xF0, SRCB: 'J', Data: []byte("B")})

	r1Content, err := wire.TTBBlockContent(r1)
	require.NoError(t, err)
	r2Content, err := wire.TTBBlockContent(r2)
	require.NoError(t, err)

	combined := wire.MakeTTB(append(append([]byte{}, r1Content...), r2Content...))
	records, err := DecodeBlock(combined)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, byte('I'), records[0].Tuples[0].SRCB)
	require.Equal(t, byte('J'), records[1].Tuples[0].SRCB)
}

func TestMergeContinuationsJoinsExactly253ByteFirstChunk(t *testing.T) {
	first := make([]byte, 253)
	for i := range first {
		first[i] = 'A'
	}
	second := append([]byte{0, 0, 0, 1}, []byte("TAIL")...)

	merged := MergeContinuations([]Tuple{
		{RCB: 0x98, SRCB: 0xC0, Data: first},
		{RCB: 0x98, SRCB: 0xC0, Data: second},
	})

	require.Len(t, merged, 1)
	require.Equal(t, append(append([]byte{}, first...), []byte("TAIL")...), merged[0].Data)
}

func TestMergeContinuationsLeavesUnrelatedTuplesAlone(t *testing.T) {
	tuples := []Tuple{
		{RCB: 0x98, SRCB: 0x80, Data: []byte("short")},
		{RCB: 0x99, SRCB: 0x80, Data: []byte("other")},
	}
	merged := MergeContinuations(tuples)
	require.Equal(t, tuples, merged)
}

func TestDecodeRecordRejectsMissingDLESTX(t *testing.T) {
	payload := wire.MakeTTR([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	block := wire.MakeTTB(payload)
	_, err := DecodeBlock(block)
	require.Error(t, err)
}
