package njeclient

import (
	"testing"

	"github.com/hasplink/njeclient/internal/ebcdic"
	"github.com/hasplink/njeclient/internal/record"
	"github.com/hasplink/njeclient/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestParseJobCardExtractsFields(t *testing.T) {
	lines := []string{
		"//JOB1 JOB (ACCT1),'J DOE',CLASS=A",
		"//STEP1 EXEC PGM=IEFBR14",
	}
	jobName, accounting, programmer := parseJobCard(lines)
	require.Equal(t, "JOB1", jobName)
	require.Equal(t, "ACCT1", accounting)
	require.Equal(t, "J DOE", programmer)
}

func TestParseJobCardSkipsContinuationCards(t *testing.T) {
	lines := []string{
		"//  continuation without a JOB statement",
		"//REALJOB JOB (X)",
	}
	jobName, _, _ := parseJobCard(lines)
	require.Equal(t, "REALJOB", jobName)
}

func TestSendJCLRequiresSignedOn(t *testing.T) {
	sess := NewSession("CLIENT", "MVSHOST")
	err := sess.SendJCL([]string{"//JOB1 JOB"}, "JDOE", "SYS1")
	require.ErrorIs(t, err, ErrNotSignedOn)
}

func TestSendJCLEndToEnd(t *testing.T) {
	sess, peer := signedOnPipeSession()
	defer peer.Close()

	lines := []string{
		"//JOB1 JOB (ACCT),'J DOE'",
		"//STEP1 EXEC PGM=IEFBR14",
	}

	done := make(chan error, 1)
	go func() { done <- sess.SendJCL(lines, "JDOE", "SYS1") }()

	// request_stream
	reqBlock, err := readRawBlock(peer)
	require.NoError(t, err)
	reqRecords, err := record.DecodeBlock(reqBlock)
	require.NoError(t, err)
	require.Equal(t, byte(0x90), reqRecords[0].Tuples[0].RCB)

	// grant permission
	grant := record.EncodeRecord(wire.InitialBCB, 0x8FCF, record.Tuple{RCB: 0xA0, SRCB: 0x98, Data: []byte{0x00, 0x00}})
	_, err = peer.Write(grant)
	require.NoError(t, err)

	// batched header/lines/trailer
	batchBlock, err := readRawBlock(peer)
	require.NoError(t, err)
	batchRecords, err := record.DecodeBlock(batchBlock)
	require.NoError(t, err)
	merged := record.MergeContinuations(batchRecords[0].Tuples)
	require.GreaterOrEqual(t, len(merged), 4) // header + 2 lines + trailer
	require.Equal(t, byte(0xC0), merged[0].SRCB)
	require.Equal(t, byte(0xD0), merged[len(merged)-1].SRCB)

	// stream close
	closeBlock, err := readRawBlock(peer)
	require.NoError(t, err)
	closeRecords, err := record.DecodeBlock(closeBlock)
	require.NoError(t, err)
	require.Equal(t, byte(0x00), closeRecords[0].Tuples[0].SRCB)

	// peer replies with a SYSOUT line
	sysoutBody := append([]byte{byte(len(ebcdic.ToEBCDIC([]byte("JOB1 ENDED"))))}, ebcdic.ToEBCDIC([]byte("JOB1 ENDED"))...)
	sysoutFrame := record.EncodeRecord(wire.InitialBCB, 0x8FCF, record.Tuple{RCB: 0x99, SRCB: 0x80, Data: sysoutBody, Compress: true})
	_, err = peer.Write(sysoutFrame)
	require.NoError(t, err)

	// signoff
	signoffBlock, err := readRawBlock(peer)
	require.NoError(t, err)
	signoffRecords, err := record.DecodeBlock(signoffBlock)
	require.NoError(t, err)
	require.Equal(t, byte(nccrSRCBSignoff), signoffRecords[0].Tuples[0].SRCB)

	require.NoError(t, <-done)
	require.Len(t, sess.SYSOUT(), 1)
	require.Contains(t, sess.SYSOUT()[0].Text, "JOB1 ENDED")
}
