package sdk

import (
	"errors"
	"fmt"
	"io"

	"github.com/kysee/zkwallet/zk-wallet/account"
	"github.com/kysee/zkwallet/zk-wallet/lasterr"
	"github.com/kysee/zkwallet/zk-wallet/network"
	"github.com/kysee/zkwallet/zk-wallet/record"
	"github.com/kysee/zkwallet/zk-wallet/transaction"
	"github.com/kysee/zkwallet/zk-wallet/types"
	"github.com/rs/zerolog"
)

var ErrUnknownHandle = errors.New("unknown handle")

// AccountHandle and RecordHandle identify objects owned by a Session.
// The zero handle is the failure sentinel.
type (
	AccountHandle uint32
	RecordHandle  uint32
)

// Session is the flat calling surface of the wallet core. Every call returns
// a handle, a string or a buffer, or the matching zero sentinel after
// recording the failure in the session's error slot.
//
// A Session is used from a single goroutine. Distinct sessions share nothing.
type Session struct {
	assembler *transaction.Assembler
	slot      lasterr.Slot
	logger    zerolog.Logger

	nextHandle uint32
	accounts   map[AccountHandle]*account.Account
	records    map[RecordHandle]*record.Record
}

type Option func(*sessionConfig)

type sessionConfig struct {
	logger zerolog.Logger
	rand   io.Reader
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *sessionConfig) {
		c.logger = logger
	}
}

// WithRand sets the entropy source used by the transaction assembler.
func WithRand(r io.Reader) Option {
	return func(c *sessionConfig) {
		c.rand = r
	}
}

// NewSession returns a session building transactions for params.
func NewSession(params *network.Params, opts ...Option) *Session {
	cfg := &sessionConfig{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}
	asmOpts := []transaction.Option{transaction.WithLogger(cfg.logger)}
	if cfg.rand != nil {
		asmOpts = append(asmOpts, transaction.WithRand(cfg.rand))
	}
	return &Session{
		assembler: transaction.NewAssembler(params, asmOpts...),
		logger:    cfg.logger.With().Str("module", "sdk").Logger(),
		accounts:  make(map[AccountHandle]*account.Account),
		records:   make(map[RecordHandle]*record.Record),
	}
}

// fail records err and logs it without any argument values.
func (s *Session) fail(op string, err error) {
	s.slot.Set(fmt.Errorf("%s: %w", op, err))
	s.logger.Debug().Str("op", op).Err(err).Msg("call failed")
}

// LastError returns the pending error for errors.Is checks.
func (s *Session) LastError() error {
	return s.slot.Err()
}

// LastErrorLength returns the byte length of the pending error message.
func (s *Session) LastErrorLength() int {
	return s.slot.Len()
}

// LastErrorMessage copies the pending message into buf. It returns the bytes
// written, or -1 if buf is too small.
func (s *Session) LastErrorMessage(buf []byte) int {
	return s.slot.CopyInto(buf)
}

func (s *Session) handle() uint32 {
	s.nextHandle++
	return s.nextHandle
}

func (s *Session) putAccount(acct *account.Account) AccountHandle {
	h := AccountHandle(s.handle())
	s.accounts[h] = acct
	return h
}

func (s *Session) putRecord(rec *record.Record) RecordHandle {
	h := RecordHandle(s.handle())
	s.records[h] = rec
	return h
}

func (s *Session) account(op string, h AccountHandle) *account.Account {
	acct, ok := s.accounts[h]
	if !ok {
		s.fail(op, fmt.Errorf("%w: account %d", ErrUnknownHandle, h))
		return nil
	}
	return acct
}

func (s *Session) record(op string, h RecordHandle) *record.Record {
	rec, ok := s.records[h]
	if !ok {
		s.fail(op, fmt.Errorf("%w: record %d", ErrUnknownHandle, h))
		return nil
	}
	return rec
}

//
// Account

func (s *Session) FromSecret(secret string) AccountHandle {
	acct, err := account.FromSecret(secret)
	if err != nil {
		s.fail("from_secret", err)
		return 0
	}
	return s.putAccount(acct)
}

// FromSeed derives an account for the network tag. An empty tag derives in
// the network agnostic domain.
func (s *Session) FromSeed(seed types.Buffer, tag string) AccountHandle {
	if err := seed.Validate(); err != nil {
		s.fail("from_seed", err)
		return 0
	}
	acct, err := account.FromSeedTag(seed.Bytes(), tag)
	if err != nil {
		s.fail("from_seed", err)
		return 0
	}
	return s.putAccount(acct)
}

func (s *Session) AccountPrivateKey(h AccountHandle) string {
	if acct := s.account("account_private_key", h); acct != nil {
		return acct.PrivateKey().String()
	}
	return ""
}

func (s *Session) AccountViewKey(h AccountHandle) string {
	if acct := s.account("account_view_key", h); acct != nil {
		return acct.ViewKey().String()
	}
	return ""
}

func (s *Session) AccountAddress(h AccountHandle) string {
	if acct := s.account("account_address", h); acct != nil {
		return acct.Address().String()
	}
	return ""
}

// AccountFree releases an account. Freeing twice is a caller error and is
// ignored.
func (s *Session) AccountFree(h AccountHandle) {
	if acct, ok := s.accounts[h]; ok {
		acct.Release()
		delete(s.accounts, h)
	}
}

//
// Record

func (s *Session) NewInputRecord(owner string, value uint64, payload types.Buffer, randomness []byte) RecordHandle {
	if err := payload.Validate(); err != nil {
		s.fail("new_input_record", err)
		return 0
	}
	addr, err := account.ParseAddress(owner)
	if err != nil {
		s.fail("new_input_record", err)
		return 0
	}
	rec, err := record.NewInputRecord(addr, value, payload.Bytes(), randomness)
	if err != nil {
		s.fail("new_input_record", err)
		return 0
	}
	return s.putRecord(rec)
}

func (s *Session) FromRecord(owner string, value uint64, payload types.Buffer, serialNumberNonce, commitmentRandomness string) RecordHandle {
	if err := payload.Validate(); err != nil {
		s.fail("from_record", err)
		return 0
	}
	addr, err := account.ParseAddress(owner)
	if err != nil {
		s.fail("from_record", err)
		return 0
	}
	rec, err := record.FromRecord(addr, value, payload.Bytes(), serialNumberNonce, commitmentRandomness)
	if err != nil {
		s.fail("from_record", err)
		return 0
	}
	return s.putRecord(rec)
}

func (s *Session) RecordOwner(h RecordHandle) string {
	if rec := s.record("record_owner", h); rec != nil {
		return rec.Owner().String()
	}
	return ""
}

// RecordValue returns the record value. ok is false for an unknown handle,
// since zero is a valid value.
func (s *Session) RecordValue(h RecordHandle) (value uint64, ok bool) {
	if rec := s.record("record_value", h); rec != nil {
		return rec.Value(), true
	}
	return 0, false
}

func (s *Session) RecordPayload(h RecordHandle) types.Buffer {
	if rec := s.record("record_payload", h); rec != nil {
		return rec.Payload()
	}
	return types.Buffer{}
}

func (s *Session) RecordSerialNumberNonce(h RecordHandle) string {
	if rec := s.record("record_serial_number_nonce", h); rec != nil {
		return rec.SerialNumberNonce()
	}
	return ""
}

func (s *Session) RecordCommitmentRandomness(h RecordHandle) string {
	if rec := s.record("record_commitment_randomness", h); rec != nil {
		return rec.CommitmentRandomness()
	}
	return ""
}

func (s *Session) RecordCommitment(h RecordHandle) string {
	if rec := s.record("record_commitment", h); rec != nil {
		return rec.Commitment()
	}
	return ""
}

func (s *Session) RecordProgramID(h RecordHandle) string {
	if rec := s.record("record_program_id", h); rec != nil {
		return rec.ProgramID()
	}
	return ""
}

func (s *Session) EncryptRecord(h RecordHandle, randomness []byte) string {
	rec := s.record("encrypt_record", h)
	if rec == nil {
		return ""
	}
	ciphertext, err := rec.Encrypt(randomness)
	if err != nil {
		s.fail("encrypt_record", err)
		return ""
	}
	return ciphertext
}

func (s *Session) DecryptRecord(ciphertext, viewKey string) RecordHandle {
	vk, err := account.ParseViewKey(viewKey)
	if err != nil {
		s.fail("decrypt_record", err)
		return 0
	}
	rec, err := record.Decrypt(ciphertext, vk)
	if err != nil {
		s.fail("decrypt_record", err)
		return 0
	}
	return s.putRecord(rec)
}

// RecordFree releases a record. Freeing twice is a caller error and is
// ignored.
func (s *Session) RecordFree(h RecordHandle) {
	if rec, ok := s.records[h]; ok {
		rec.Release()
		delete(s.records, h)
	}
}

//
// Transaction

func (s *Session) NewCoinbaseTransaction(recipient string, value uint64, randomness []byte) string {
	tx, err := s.assembler.BuildCoinbase(recipient, value, randomness)
	if err != nil {
		s.fail("new_coinbase_transaction", err)
		return ""
	}
	return tx
}

func (s *Session) NewTransferTransaction(
	input RecordHandle,
	proof1, proof2 string,
	spenderKey string,
	amount, fee uint64,
	recipient string,
) string {
	rec := s.record("new_transfer_transaction", input)
	if rec == nil {
		return ""
	}
	tx, err := s.assembler.BuildTransfer(rec, proof1, proof2, spenderKey, amount, fee, recipient)
	if err != nil {
		s.fail("new_transfer_transaction", err)
		return ""
	}
	return tx
}
