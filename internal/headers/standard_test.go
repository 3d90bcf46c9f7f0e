package headers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeStandardRecordRoundTrip(t *testing.T) {
	line := "//MYJOB01 JOB (12345),'J DOE',CLASS=A"
	encoded := EncodeJCLLine(line)
	require.Equal(t, byte(jclLineRecordLength), encoded[0])

	// EncodeJCLLine always tags 0x50 regardless of actual length, so
	// decode it as a plain length-prefixed record using the real count.
	body := encoded[1:]
	withRealLength := append([]byte{byte(len(body))}, body...)

	rec, err := DecodeStandardRecord(withRealLength)
	require.NoError(t, err)
	require.Equal(t, line, rec.Text)
}

func TestDecodeStandardRecordRejectsTruncated(t *testing.T) {
	_, err := DecodeStandardRecord([]byte{5, 1, 2})
	require.Error(t, err)
}

func TestClassAndCarriageControl(t *testing.T) {
	require.Equal(t, byte(SRCBJobHeader), Class(0xC5))
	require.Equal(t, byte(CarriageControlASA), CarriageControl(0x80|0x20))
}
