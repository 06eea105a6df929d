package network

import (
	"fmt"
	"strings"

	"github.com/kysee/zkwallet/zk-wallet/types"
)

// Network denotes the network params.
type Network string

const (
	testnet1 Network = "testnet1"
	testnet2 Network = "testnet2"
	mainnet  Network = "mainnet"
)

const (
	// MaxPayloadSize is the largest record payload in bytes.
	MaxPayloadSize = 128

	// NoopProgramID identifies plain value transfer records.
	NoopProgramID = "noop"
)

// Params holds the network object.
type Params struct {
	network Network
	id      uint16

	// MaxCoinbaseValue caps the value minted by a single coinbase transaction.
	MaxCoinbaseValue uint64
}

// Network returns the Network type.
func (p Params) Network() Network {
	return p.network
}

// ID returns the numeric network id written into transactions.
func (p Params) ID() uint16 {
	return p.id
}

func (p Params) String() string {
	return string(p.network)
}

// Testnet1 returns Testnet1 params.
func Testnet1() *Params {
	return &Params{network: testnet1, id: 1, MaxCoinbaseValue: 1 << 62}
}

// Testnet2 returns Testnet2 params.
func Testnet2() *Params {
	return &Params{network: testnet2, id: 2, MaxCoinbaseValue: 1 << 62}
}

// Mainnet returns Mainnet params.
func Mainnet() *Params {
	return &Params{network: mainnet, id: 3, MaxCoinbaseValue: 1 << 53}
}

// Lookup resolves a network tag. Tags are case insensitive.
func Lookup(tag string) (*Params, error) {
	switch Network(strings.ToLower(tag)) {
	case testnet1:
		return Testnet1(), nil
	case testnet2:
		return Testnet2(), nil
	case mainnet:
		return Mainnet(), nil
	}
	return nil, types.NewError(types.ErrUnsupportedNetwork, fmt.Sprintf("unsupported network %q", tag))
}
