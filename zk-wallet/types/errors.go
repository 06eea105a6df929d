package types

// ErrorKind identifies a kind of error. It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidPrivateKey is returned when a private key string is malformed or
	// does not authorize the requested spend.
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrInvalidSeedLength is returned when a seed is too short or too long.
	ErrInvalidSeedLength = ErrorKind("ErrInvalidSeedLength")

	// ErrUnsupportedNetwork is returned for an unknown network tag or when
	// components bound to different networks are mixed.
	ErrUnsupportedNetwork = ErrorKind("ErrUnsupportedNetwork")

	// ErrInvalidAddress is returned when an address does not decode to a curve
	// point.
	ErrInvalidAddress = ErrorKind("ErrInvalidAddress")

	// ErrPayloadTooLong is returned when a record payload exceeds
	// MaxPayloadSize.
	ErrPayloadTooLong = ErrorKind("ErrPayloadTooLong")

	// ErrInvalidEncoding is returned for malformed scalars, view keys, program
	// ids and records whose commitment does not match their fields.
	ErrInvalidEncoding = ErrorKind("ErrInvalidEncoding")

	// ErrInvalidRandomness is returned when caller supplied entropy has the
	// wrong length.
	ErrInvalidRandomness = ErrorKind("ErrInvalidRandomness")

	// ErrEncryptionFailure is returned when a record cannot be encrypted.
	ErrEncryptionFailure = ErrorKind("ErrEncryptionFailure")

	// ErrInvalidCiphertext is returned when a record ciphertext cannot be
	// decoded or decrypts to an inconsistent record.
	ErrInvalidCiphertext = ErrorKind("ErrInvalidCiphertext")

	// ErrViewKeyMismatch is returned when a ciphertext was not addressed to the
	// given view key.
	ErrViewKeyMismatch = ErrorKind("ErrViewKeyMismatch")

	// ErrInsufficientFunds is returned when amount plus fee exceeds the input
	// record value.
	ErrInsufficientFunds = ErrorKind("ErrInsufficientFunds")

	// ErrInvalidProof is returned when a ledger proof is empty or not hex.
	ErrInvalidProof = ErrorKind("ErrInvalidProof")

	// ErrArithmeticOverflow is returned when value arithmetic leaves the
	// uint64 range or a configured cap.
	ErrArithmeticOverflow = ErrorKind("ErrArithmeticOverflow")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to the wallet core. It has full support
// for errors.Is and errors.As, so the caller can ascertain the specific reason
// for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error given a set of arguments.
func NewError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
