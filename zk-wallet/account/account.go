package account

import (
	"github.com/kysee/zkwallet/zk-wallet/network"
)

// Account bundles a private key with its derived view key and address.
// An Account is not safe for concurrent mutation; Release must be the last call.
type Account struct {
	privateKey *PrivateKey
	viewKey    *ViewKey
	address    *Address
}

func newAccount(pk *PrivateKey) *Account {
	vk := pk.ViewKey()
	return &Account{
		privateKey: pk,
		viewKey:    vk,
		address:    vk.Address(),
	}
}

// FromSecret restores an account from its private key string.
func FromSecret(secret string) (*Account, error) {
	pk, err := ParsePrivateKey(secret)
	if err != nil {
		return nil, err
	}
	return newAccount(pk), nil
}

// FromSeed derives an account from seed for the given network.
// A nil params derives in the network agnostic domain.
func FromSeed(seed []byte, params *network.Params) (*Account, error) {
	pk, err := NewPrivateKey(seed, params)
	if err != nil {
		return nil, err
	}
	return newAccount(pk), nil
}

// FromSeedTag is FromSeed with a textual network tag. An empty tag selects
// the network agnostic domain.
func FromSeedTag(seed []byte, tag string) (*Account, error) {
	var params *network.Params
	if tag != "" {
		var err error
		if params, err = network.Lookup(tag); err != nil {
			return nil, err
		}
	}
	return FromSeed(seed, params)
}

// New creates an account from a fresh random seed.
func New(params *network.Params) (*Account, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return FromSeed(seed, params)
}

func (a *Account) PrivateKey() *PrivateKey {
	return a.privateKey
}

func (a *Account) ViewKey() *ViewKey {
	return a.viewKey
}

func (a *Account) Address() *Address {
	return a.address
}

// Release zeroes the secret material held by the account.
func (a *Account) Release() {
	if a.privateKey != nil {
		a.privateKey.Zero()
	}
	if a.viewKey != nil {
		a.viewKey.Zero()
	}
	a.privateKey, a.viewKey, a.address = nil, nil, nil
}
