package crypto

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	tedwards "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"golang.org/x/crypto/blake2b"
)

// ScalarSize is the size in bytes of an encoded scalar or compressed point.
const ScalarSize = 32

var (
	curve = tedwards.GetEdwardsCurve()

	errPointNotOnCurve    = errors.New("point is not on curve")
	errPointNotInSubgroup = errors.New("point is not in the prime order subgroup")
	errPointIdentity      = errors.New("point is the identity")
)

// Order returns a copy of the prime subgroup order.
func Order() *big.Int {
	return new(big.Int).Set(&curve.Order)
}

// HashToScalar hashes a domain tag and the given inputs into a scalar mod the
// subgroup order. Every input is length prefixed, so (a, bc) and (ab, c) never
// collide.
func HashToScalar(domain string, ins ...[]byte) *big.Int {
	h, _ := blake2b.New512(nil)
	writeLenPrefixed(h, []byte(domain))
	for _, in := range ins {
		writeLenPrefixed(h, in)
	}
	s := new(big.Int).SetBytes(h.Sum(nil))
	return s.Mod(s, &curve.Order)
}

func writeLenPrefixed(h interface{ Write([]byte) (int, error) }, bz []byte) {
	var l [8]byte
	binary.BigEndian.PutUint64(l[:], uint64(len(bz)))
	_, _ = h.Write(l[:])
	_, _ = h.Write(bz)
}

// ScalarBytes encodes s as 32 big endian bytes.
func ScalarBytes(s *big.Int) []byte {
	return s.FillBytes(make([]byte, ScalarSize))
}

// ScalarFromBytes decodes a canonical, non zero scalar.
func ScalarFromBytes(bz []byte) (*big.Int, error) {
	if len(bz) != ScalarSize {
		return nil, fmt.Errorf("wrong scalar length: expected(%d), got(%d)", ScalarSize, len(bz))
	}
	s := new(big.Int).SetBytes(bz)
	if s.Sign() == 0 {
		return nil, errors.New("scalar is zero")
	}
	if s.Cmp(&curve.Order) >= 0 {
		return nil, errors.New("scalar exceeds the subgroup order")
	}
	return s, nil
}

// BaseMul returns s*G.
func BaseMul(s *big.Int) *tedwards.PointAffine {
	var p tedwards.PointAffine
	p.ScalarMultiplication(&curve.Base, s)
	return &p
}

// ScalarMul returns s*P.
func ScalarMul(p *tedwards.PointAffine, s *big.Int) *tedwards.PointAffine {
	var r tedwards.PointAffine
	r.ScalarMultiplication(p, s)
	return &r
}

func PointBytes(p *tedwards.PointAffine) []byte {
	bz := p.Bytes()
	return bz[:]
}

// PointFromBytes decodes a compressed point and checks that it is a usable
// public key: on the curve, in the prime order subgroup and not the identity.
func PointFromBytes(bz []byte) (*tedwards.PointAffine, error) {
	if len(bz) != ScalarSize {
		return nil, fmt.Errorf("wrong point length: expected(%d), got(%d)", ScalarSize, len(bz))
	}
	var p tedwards.PointAffine
	if _, err := p.SetBytes(bz); err != nil {
		return nil, err
	}
	if err := CheckPoint(&p); err != nil {
		return nil, err
	}
	// SetBytes does not reject non canonical encodings
	if enc := p.Bytes(); string(enc[:]) != string(bz) {
		return nil, errors.New("non canonical point encoding")
	}
	return &p, nil
}

func CheckPoint(p *tedwards.PointAffine) error {
	if !p.IsOnCurve() {
		return errPointNotOnCurve
	}
	if p.IsZero() {
		return errPointIdentity
	}
	var q tedwards.PointAffine
	q.ScalarMultiplication(p, &curve.Order)
	if !q.IsZero() {
		return errPointNotInSubgroup
	}
	return nil
}
