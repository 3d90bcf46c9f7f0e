package njeclient

import (
	"testing"

	"github.com/hasplink/njeclient/internal/wire"
	"github.com/stretchr/testify/require"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("CLIENT", "MVSHOST")
	require.Equal(t, stateDisconnected, s.state)
	require.Equal(t, byte(0x01), s.localNode)
	require.Equal(t, wire.InitialBCB, s.sequence)
	require.Equal(t, uint16(0x8FCF), s.fcs)
	require.NotEmpty(t, s.SessionID())
	require.Empty(t, s.NMR())
	require.Empty(t, s.SYSIN())
	require.Empty(t, s.SYSOUT())
}

func TestSessionNextBCBAdvances(t *testing.T) {
	s := NewSession("CLIENT", "MVSHOST")
	first := s.nextBCB()
	require.Equal(t, wire.InitialBCB, first)
	second := s.nextBCB()
	require.Equal(t, wire.BCB(0x81), second)
}

func TestSessionResetSequence(t *testing.T) {
	s := NewSession("CLIENT", "MVSHOST")
	s.nextBCB()
	s.nextBCB()
	s.resetSequence()
	require.Equal(t, wire.InitialBCB, s.sequence)
}

func TestSetOffline(t *testing.T) {
	s := NewSession("CLIENT", "MVSHOST")
	require.False(t, s.offline)
	s.SetOffline()
	require.True(t, s.offline)
}
