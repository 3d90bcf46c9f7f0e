package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBCBInitialValue(t *testing.T) {
	require.Equal(t, BCB(0x80), InitialBCB)
}

func TestBCBNextSequence(t *testing.T) {
	cur := InitialBCB
	for _, want := range []BCB{0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88,
		0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F, 0x81} {
		cur = cur.Next()
		require.Equal(t, want, cur)
	}
}

func TestBCBHighBitAlwaysSet(t *testing.T) {
	cur := InitialBCB
	for i := 0; i < 32; i++ {
		cur = cur.Next()
		require.NotZero(t, byte(cur)&0x80)
	}
}
