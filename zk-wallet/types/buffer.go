package types

import (
	"encoding/hex"
	"fmt"
)

// Buffer is a length-tagged byte sequence. Payload bytes are arbitrary binary
// and are never treated as NUL terminated text.
type Buffer struct {
	Data []byte
	Len  int
}

func NewBuffer(bz []byte) Buffer {
	data := make([]byte, len(bz))
	copy(data, bz)
	return Buffer{Data: data, Len: len(data)}
}

// Validate checks that Len fits within Data.
func (b Buffer) Validate() error {
	if b.Len < 0 || b.Len > len(b.Data) {
		return NewError(ErrInvalidEncoding,
			fmt.Sprintf("invalid buffer: length %d with %d data bytes", b.Len, len(b.Data)))
	}
	return nil
}

// Bytes returns a copy of the first Len bytes, or nil for an invalid buffer.
func (b Buffer) Bytes() []byte {
	if b.Validate() != nil {
		return nil
	}
	ret := make([]byte, b.Len)
	copy(ret, b.Data[:b.Len])
	return ret
}

func (b Buffer) String() string {
	return hex.EncodeToString(b.Bytes())
}
