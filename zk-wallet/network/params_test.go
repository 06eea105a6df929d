package network

import (
	"errors"
	"testing"

	"github.com/kysee/zkwallet/zk-wallet/types"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		tag  string
		want Network
		id   uint16
	}{
		{"testnet1", testnet1, 1},
		{"TESTNET2", testnet2, 2},
		{"mainnet", mainnet, 3},
	}
	for _, test := range tests {
		p, err := Lookup(test.tag)
		require.NoError(t, err)
		require.Equal(t, test.want, p.Network())
		require.Equal(t, test.id, p.ID())
	}
}

func TestLookupUnsupported(t *testing.T) {
	for _, tag := range []string{"", "devnet", "testnet3"} {
		_, err := Lookup(tag)
		require.True(t, errors.Is(err, types.ErrUnsupportedNetwork), tag)
	}
}
