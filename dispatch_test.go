package njeclient

import (
	"net"
	"testing"

	"github.com/hasplink/njeclient/internal/ebcdic"
	"github.com/hasplink/njeclient/internal/headers"
	"github.com/hasplink/njeclient/internal/record"
	"github.com/hasplink/njeclient/internal/transport"
	"github.com/stretchr/testify/require"
)

func pipedSession() (*Session, net.Conn) {
	client, peer := net.Pipe()
	sess := NewSession("CLIENT", "MVSHOST")
	sess.conn = transport.Wrap(client)
	return sess, peer
}

func TestDispatchTupleEndOfBlockSentinel(t *testing.T) {
	sess, peer := pipedSession()
	defer peer.Close()
	result, err := sess.dispatchTuple(record.Tuple{RCB: 0x00})
	require.NoError(t, err)
	require.Equal(t, dispatchResult{}, result)
}

func TestDispatchTupleStreamRequestRepliesPermission(t *testing.T) {
	sess, peer := pipedSession()
	defer peer.Close()

	done := make(chan []byte, 1)
	go func() {
		block, _ := readRawBlock(peer)
		done <- block
	}()

	_, err := sess.dispatchTuple(record.Tuple{RCB: 0x90, SRCB: 0x98})
	require.NoError(t, err)

	reply := <-done
	records, err := record.DecodeBlock(reply)
	require.NoError(t, err)
	require.Equal(t, byte(0xA0), records[0].Tuples[0].RCB)
}

func TestDispatchTupleStreamOpenAndClose(t *testing.T) {
	sess, _ := pipedSession()

	result, err := sess.dispatchTuple(record.Tuple{RCB: 0xA0, SRCB: 0x98})
	require.NoError(t, err)
	require.True(t, result.streamOpen)
	require.True(t, sess.streamOpen)

	_, err = sess.dispatchTuple(record.Tuple{RCB: 0xB0, SRCB: 0x98})
	require.NoError(t, err)
	require.False(t, sess.streamOpen)
}

func TestDispatchTupleSignoffNCCR(t *testing.T) {
	sess, _ := pipedSession()
	result, err := sess.dispatchTuple(record.Tuple{RCB: nccrRCB, SRCB: nccrSRCBSignoff})
	require.NoError(t, err)
	require.True(t, result.signedOff)
}

func TestDispatchTupleNMR(t *testing.T) {
	sess, _ := pipedSession()
	nmr := headers.NewCommandNMR("MVSHOST", "CLIENT", "DISPLAY A")
	result, err := sess.dispatchTuple(record.Tuple{RCB: 0x9A, SRCB: 0x00, Data: nmr.Encode()})
	require.NoError(t, err)
	require.True(t, result.gotNMR)
	require.Len(t, sess.nmrs, 1)
	require.Equal(t, "DISPLAY A", sess.nmrs[0].Message)
}

func TestDispatchTupleSYSINStreamCloseSentinel(t *testing.T) {
	sess, _ := pipedSession()
	result, err := sess.dispatchTuple(record.Tuple{RCB: 0x98, SRCB: 0x00})
	require.NoError(t, err)
	require.True(t, result.streamClosed)
	require.Len(t, sess.sysin, 1)
}

func TestDispatchTupleSYSINStandardLine(t *testing.T) {
	sess, _ := pipedSession()
	line := standardRecordBytes("//JOB1 JOB (ACCT),'PROGRAMMER'")
	result, err := sess.dispatchTuple(record.Tuple{RCB: 0x98, SRCB: 0x80, Data: line})
	require.NoError(t, err)
	require.False(t, result.streamClosed)
	require.Len(t, sess.sysin, 1)
	require.Contains(t, sess.sysin[0].Text, "JOB1")
}

func TestDispatchTupleSYSOUTStandardLine(t *testing.T) {
	sess, _ := pipedSession()
	line := standardRecordBytes("HELLO WORLD")
	result, err := sess.dispatchTuple(record.Tuple{RCB: 0x99, SRCB: 0x80, Data: line})
	require.NoError(t, err)
	require.True(t, result.gotSYSOUT)
	require.Len(t, sess.sysout, 1)
	require.Contains(t, sess.sysout[0].Text, "HELLO WORLD")
}

// standardRecordBytes builds a length-prefixed EBCDIC text record the
// way a peer would send one, distinct from EncodeJCLLine's fixed
// outbound record-length byte.
func standardRecordBytes(text string) []byte {
	body := ebcdic.ToEBCDIC([]byte(text))
	return append([]byte{byte(len(body))}, body...)
}

func TestDispatchBlockHeartbeatIsAnswered(t *testing.T) {
	sess, peer := pipedSession()
	defer peer.Close()

	frame := record.Heartbeat(sess.nextBCB(), sess.fcs)

	done := make(chan []byte, 1)
	go func() {
		block, _ := readRawBlock(peer)
		done <- block
	}()

	result, err := sess.dispatchBlock(frame)
	require.NoError(t, err)
	require.Equal(t, dispatchResult{}, result)

	reply := <-done
	records, err := record.DecodeBlock(reply)
	require.NoError(t, err)
	require.True(t, records[0].Heartbeat)
}
