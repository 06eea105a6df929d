package account

import (
	"bytes"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	jubjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/kysee/zkwallet/zk-wallet/crypto"
	"github.com/kysee/zkwallet/zk-wallet/network"
	"github.com/kysee/zkwallet/zk-wallet/types"
)

const (
	privateKeyPrefix  = "sk"
	privateKeyVersion = 0x11

	SeedSize = 32

	MinSeedLength = 16
	MaxSeedLength = 256
)

var errNoValidCounter = errors.New("no counter yields a valid view key")

// PrivateKey is the root secret of an account: a 32 byte seed and the counter
// that selects the first valid view key derivation.
type PrivateKey struct {
	Seed    [SeedSize]byte
	Counter uint16

	skSig *jubjub.PrivateKey
	skPrf []byte
	rPk   *big.Int
}

// String implements the stringer interface for PrivateKey.
// Returns the prefixed base58check encoded string.
func (pk *PrivateKey) String() string {
	var buf bytes.Buffer
	buf.Write(pk.Seed[:])
	_ = binary.Write(&buf, binary.LittleEndian, pk.Counter)
	return privateKeyPrefix + base58.CheckEncode(buf.Bytes(), privateKeyVersion)
}

// ParsePrivateKey accepts a private key string and returns the PrivateKey.
// The derivation is replayed so that only keys yielding a valid view key parse.
func ParsePrivateKey(key string) (*PrivateKey, error) {
	invalid := func(desc string) error {
		return types.NewError(types.ErrInvalidPrivateKey, "invalid private key: "+desc)
	}
	if !strings.HasPrefix(key, privateKeyPrefix) {
		return nil, invalid("wrong prefix")
	}
	bz, ver, err := base58.CheckDecode(key[len(privateKeyPrefix):])
	if err != nil {
		return nil, invalid(err.Error())
	}
	if ver != privateKeyVersion {
		return nil, invalid(fmt.Sprintf("wrong version: expected(%d), got(%d)", privateKeyVersion, ver))
	}
	if len(bz) != SeedSize+2 {
		return nil, invalid(fmt.Sprintf("wrong length: got %d", len(bz)))
	}

	pk := &PrivateKey{Counter: binary.LittleEndian.Uint16(bz[SeedSize:])}
	copy(pk.Seed[:], bz[:SeedSize])
	ok, err := pk.derive()
	if err != nil {
		return nil, invalid(err.Error())
	}
	if !ok {
		return nil, invalid("counter does not yield a valid view key")
	}
	return pk, nil
}

// NewSeed creates a uniformly random 32-byte account seed.
func NewSeed() ([]byte, error) {
	d := make([]byte, SeedSize)
	if _, err := crand.Read(d); err != nil {
		return nil, err
	}
	return d, nil
}

// NewPrivateKey expands seed into a private key. The network is part of the
// hash domain, so the same seed gives unrelated keys on different networks.
// A nil params is its own domain and never equals a named network.
func NewPrivateKey(seed []byte, params *network.Params) (*PrivateKey, error) {
	if l := len(seed); l < MinSeedLength || l > MaxSeedLength {
		return nil, types.NewError(types.ErrInvalidSeedLength,
			fmt.Sprintf("invalid seed length: got %d want %d..%d", l, MinSeedLength, MaxSeedLength))
	}

	domain := []byte{0x00}
	if params != nil {
		domain = append([]byte{0x01}, []byte(params.Network())...)
	}

	pk := &PrivateKey{}
	copy(pk.Seed[:], crypto.PRF(nil, "account_seed", domain, seed))

	// A counter is iterated on until a valid view key can be derived.
	for counter := 0; counter <= math.MaxUint16; counter++ {
		pk.Counter = uint16(counter)
		ok, err := pk.derive()
		if err != nil {
			return nil, err
		}
		if ok {
			return pk, nil
		}
	}
	return nil, errNoValidCounter
}

// derive computes sk_sig, sk_prf and r_pk from the seed and counter and
// reports whether they produce a non zero view key.
func (pk *PrivateKey) derive() (bool, error) {
	skSig, err := crypto.NewSpendKey(crypto.PRF(pk.Seed[:], "sk_sig"))
	if err != nil {
		return false, err
	}
	var counter [2]byte
	binary.LittleEndian.PutUint16(counter[:], pk.Counter)

	pk.skSig = skSig
	pk.skPrf = crypto.PRF(pk.Seed[:], "sk_prf")
	pk.rPk = crypto.HashToScalar("r_pk", pk.Seed[:], counter[:])

	if pk.viewKeyScalar().Sign() == 0 {
		if pk.Counter == math.MaxUint16 {
			return false, errNoValidCounter
		}
		return false, nil
	}
	return true, nil
}

// viewKeyScalar commits to the spend public key and the PRF key with r_pk.
func (pk *PrivateKey) viewKeyScalar() *big.Int {
	return crypto.HashToScalar("view_key",
		pk.skSig.PublicKey.Bytes(),
		pk.skPrf,
		crypto.ScalarBytes(pk.rPk),
	)
}

// ViewKey derives the view key.
func (pk *PrivateKey) ViewKey() *ViewKey {
	return &ViewKey{scalar: pk.viewKeyScalar()}
}

// SpendKey returns the eddsa key authorizing spends.
func (pk *PrivateKey) SpendKey() *jubjub.PrivateKey {
	return pk.skSig
}

// PRFKey returns a copy of the serial number PRF key.
func (pk *PrivateKey) PRFKey() []byte {
	ret := make([]byte, len(pk.skPrf))
	copy(ret, pk.skPrf)
	return ret
}

// Zero overwrites the secret material.
func (pk *PrivateKey) Zero() {
	for i := range pk.Seed {
		pk.Seed[i] = 0
	}
	for i := range pk.skPrf {
		pk.skPrf[i] = 0
	}
	pk.skSig = nil
	pk.rPk = nil
}
