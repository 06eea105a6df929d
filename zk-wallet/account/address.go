package account

import (
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	tedwards "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/kysee/zkwallet/zk-wallet/crypto"
	"github.com/kysee/zkwallet/zk-wallet/types"
)

// AddressHRP is the human readable part of every bech32 address.
const AddressHRP = "zk"

// Address is the public receiving identity of an account.
type Address struct {
	point tedwards.PointAffine
}

// NewAddress wraps a curve point after checking that it can receive records.
func NewAddress(p *tedwards.PointAffine) (*Address, error) {
	if p == nil {
		return nil, types.NewError(types.ErrInvalidAddress, "invalid address: nil point")
	}
	if err := crypto.CheckPoint(p); err != nil {
		return nil, types.NewError(types.ErrInvalidAddress, "invalid address: "+err.Error())
	}
	return &Address{point: *p}, nil
}

// String returns the bech32 encoding of the compressed point.
func (a *Address) String() string {
	data, err := bech32.ConvertBits(a.Bytes(), 8, 5, true)
	if err != nil {
		panic(err)
	}
	s, err := bech32.Encode(AddressHRP, data)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseAddress decodes a bech32 address.
func ParseAddress(addr string) (*Address, error) {
	invalid := func(desc string) error {
		return types.NewError(types.ErrInvalidAddress, fmt.Sprintf("invalid address %q: %s", addr, desc))
	}
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return nil, invalid(err.Error())
	}
	if hrp != AddressHRP {
		return nil, invalid(fmt.Sprintf("wrong hrp: expected(%s), got(%s)", AddressHRP, hrp))
	}
	bz, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, invalid(err.Error())
	}
	p, err := crypto.PointFromBytes(bz)
	if err != nil {
		return nil, invalid(err.Error())
	}
	return &Address{point: *p}, nil
}

// Bytes returns the 32 byte compressed point.
func (a *Address) Bytes() []byte {
	return crypto.PointBytes(&a.point)
}

// Point returns a copy of the underlying curve point.
func (a *Address) Point() *tedwards.PointAffine {
	p := a.point
	return &p
}

func (a *Address) Equal(o *Address) bool {
	return o != nil && a.point.Equal(&o.point)
}

func (a *Address) Copy() *Address {
	return &Address{point: a.point}
}
