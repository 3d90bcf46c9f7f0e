package njeclient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionStateStrings(t *testing.T) {
	cases := map[sessionState]string{
		stateDisconnected: "disconnected",
		stateTCPUp:        "tcp-up",
		stateOpenSent:     "open-sent",
		stateSohSent:      "soh-sent",
		stateIRecSent:     "i-record-sent",
		stateKRecSent:     "k-record-sent",
		stateSignedOn:     "signed-on",
	}
	for state, want := range cases {
		require.Equal(t, want, state.String())
	}
}

func TestSessionStateUnknown(t *testing.T) {
	require.Equal(t, "unknown", sessionState(99).String())
}
