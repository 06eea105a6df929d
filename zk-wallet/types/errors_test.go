package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestErrorKindStringer tests the stringized output for the ErrorKind type.
func TestErrorKindStringer(t *testing.T) {
	tests := []struct {
		in   ErrorKind
		want string
	}{
		{ErrInvalidPrivateKey, "ErrInvalidPrivateKey"},
		{ErrInvalidSeedLength, "ErrInvalidSeedLength"},
		{ErrUnsupportedNetwork, "ErrUnsupportedNetwork"},
		{ErrInvalidAddress, "ErrInvalidAddress"},
		{ErrPayloadTooLong, "ErrPayloadTooLong"},
		{ErrInvalidEncoding, "ErrInvalidEncoding"},
		{ErrInvalidRandomness, "ErrInvalidRandomness"},
		{ErrEncryptionFailure, "ErrEncryptionFailure"},
		{ErrInvalidCiphertext, "ErrInvalidCiphertext"},
		{ErrViewKeyMismatch, "ErrViewKeyMismatch"},
		{ErrInsufficientFunds, "ErrInsufficientFunds"},
		{ErrInvalidProof, "ErrInvalidProof"},
		{ErrArithmeticOverflow, "ErrArithmeticOverflow"},
	}

	for i, test := range tests {
		require.Equal(t, test.want, test.in.Error(), i)
	}
}

// TestErrorKindIsAs ensures both ErrorKind and Error can be identified as
// being a specific error kind via errors.Is and unwrapped via errors.As.
func TestErrorKindIsAs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
		wantAs    ErrorKind
	}{{
		name:      "ErrInvalidAddress == ErrInvalidAddress",
		err:       ErrInvalidAddress,
		target:    ErrInvalidAddress,
		wantMatch: true,
		wantAs:    ErrInvalidAddress,
	}, {
		name:      "Error.ErrInvalidAddress == ErrInvalidAddress",
		err:       NewError(ErrInvalidAddress, "bad checksum"),
		target:    ErrInvalidAddress,
		wantMatch: true,
		wantAs:    ErrInvalidAddress,
	}, {
		name:      "ErrViewKeyMismatch != ErrInvalidCiphertext",
		err:       ErrViewKeyMismatch,
		target:    ErrInvalidCiphertext,
		wantMatch: false,
		wantAs:    ErrViewKeyMismatch,
	}, {
		name:      "Error.ErrViewKeyMismatch != Error.ErrInvalidCiphertext",
		err:       NewError(ErrViewKeyMismatch, ""),
		target:    NewError(ErrInvalidCiphertext, ""),
		wantMatch: false,
		wantAs:    ErrViewKeyMismatch,
	}}

	for _, test := range tests {
		require.Equal(t, test.wantMatch, errors.Is(test.err, test.target), test.name)

		var kind ErrorKind
		require.True(t, errors.As(test.err, &kind), test.name)
		require.Equal(t, test.wantAs, kind, test.name)
	}
}

func TestBuffer(t *testing.T) {
	src := []byte{0x00, 0x01, 0x00}
	buf := NewBuffer(src)
	src[1] = 0xff

	require.Equal(t, 3, buf.Len)
	require.Equal(t, []byte{0x00, 0x01, 0x00}, buf.Bytes())
	require.Equal(t, "000100", buf.String())
}

func TestBufferValidate(t *testing.T) {
	tests := []struct {
		name string
		buf  Buffer
		ok   bool
	}{
		{"empty", Buffer{}, true},
		{"exact", Buffer{Data: make([]byte, 4), Len: 4}, true},
		{"prefix", Buffer{Data: make([]byte, 4), Len: 2}, true},
		{"too long", Buffer{Data: make([]byte, 4), Len: 32}, false},
		{"negative", Buffer{Data: make([]byte, 4), Len: -1}, false},
	}
	for _, test := range tests {
		err := test.buf.Validate()
		if test.ok {
			require.NoError(t, err, test.name)
			continue
		}
		require.True(t, errors.Is(err, ErrInvalidEncoding), test.name)
		require.NotPanics(t, func() {
			require.Nil(t, test.buf.Bytes())
			require.Equal(t, "", test.buf.String())
		}, test.name)
	}
}
