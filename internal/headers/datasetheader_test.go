package headers

import (
	"encoding/binary"
	"testing"

	"github.com/hasplink/njeclient/internal/ebcdic"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataSetHeader(t *testing.T) {
	d := make([]byte, 4+104)
	// outer wrapper
	binary.BigEndian.PutUint16(d[0:2], uint16(len(d)))
	d = d[:4]
	d = append(d, make([]byte, 104)...)

	d[4], d[5], d[6], d[7] = 0x00, 0x68, 0xE0, 0x00 // NDHGLEN/TYPE/MOD within general section start
	node := ebcdic.PadName("SYSPRINT")
	copy(d[8:16], node[:])
	ddname := ebcdic.PadName("SYSUT1")
	copy(d[40:48], ddname[:])
	binary.BigEndian.PutUint16(d[48:50], 3)
	d[51] = ebcdic.ToEBCDIC([]byte("A"))[0]
	binary.BigEndian.PutUint32(d[52:56], 120)
	binary.BigEndian.PutUint16(d[58:60], 133)

	hdr, err := DecodeDataSetHeader(d)
	require.NoError(t, err)
	require.Equal(t, "SYSPRINT", hdr.Node)
	require.Equal(t, "SYSUT1", hdr.DDName)
	require.Equal(t, uint16(3), hdr.DataSetNum)
	require.Equal(t, "A", hdr.Class)
	require.Equal(t, int32(120), hdr.RecordCount)
	require.Equal(t, uint16(133), hdr.LRECL)
}

func TestDecodeDataSetHeaderRejectsShortPayload(t *testing.T) {
	_, err := DecodeDataSetHeader([]byte{0, 0, 0, 0})
	require.Error(t, err)
}
