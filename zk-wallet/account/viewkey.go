package account

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/kysee/zkwallet/zk-wallet/crypto"
	"github.com/kysee/zkwallet/zk-wallet/types"
)

const (
	viewKeyPrefix  = "vk"
	viewKeyVersion = 0x12
)

// ViewKey is the decryption key for records owned by an account.
type ViewKey struct {
	scalar *big.Int
}

// String implements the stringer interface for ViewKey.
func (vk *ViewKey) String() string {
	return viewKeyPrefix + base58.CheckEncode(crypto.ScalarBytes(vk.scalar), viewKeyVersion)
}

// ParseViewKey decodes a view key string.
func ParseViewKey(key string) (*ViewKey, error) {
	invalid := func(desc string) error {
		return types.NewError(types.ErrInvalidEncoding, "invalid view key: "+desc)
	}
	if !strings.HasPrefix(key, viewKeyPrefix) {
		return nil, invalid("wrong prefix")
	}
	bz, ver, err := base58.CheckDecode(key[len(viewKeyPrefix):])
	if err != nil {
		return nil, invalid(err.Error())
	}
	if ver != viewKeyVersion {
		return nil, invalid(fmt.Sprintf("wrong version: expected(%d), got(%d)", viewKeyVersion, ver))
	}
	s, err := crypto.ScalarFromBytes(bz)
	if err != nil {
		return nil, invalid(err.Error())
	}
	return &ViewKey{scalar: s}, nil
}

// Scalar returns a copy of the view key scalar.
func (vk *ViewKey) Scalar() *big.Int {
	return new(big.Int).Set(vk.scalar)
}

// Address derives the address vk*G.
func (vk *ViewKey) Address() *Address {
	return &Address{point: *crypto.BaseMul(vk.scalar)}
}

func (vk *ViewKey) Equal(o *ViewKey) bool {
	return vk.scalar.Cmp(o.scalar) == 0
}

// Zero clears the scalar.
func (vk *ViewKey) Zero() {
	if vk.scalar != nil {
		vk.scalar.SetInt64(0)
	}
}
