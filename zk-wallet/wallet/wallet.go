package wallet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/kysee/zkwallet/zk-wallet/account"
	"github.com/kysee/zkwallet/zk-wallet/ledger"
	"github.com/kysee/zkwallet/zk-wallet/record"
	"github.com/kysee/zkwallet/zk-wallet/transaction"
	"github.com/kysee/zkwallet/zk-wallet/types"
	"github.com/rs/zerolog"
)

// Wallet tracks the unspent records of one account on a ledger.
// It keeps no state besides what the last Sync found.
type Wallet struct {
	acct    *account.Account
	records []*record.Record
	logger  zerolog.Logger
}

func New(acct *account.Account, logger zerolog.Logger) *Wallet {
	return &Wallet{
		acct:   acct,
		logger: logger.With().Str("address", acct.Address().String()).Logger(),
	}
}

func (w *Wallet) Account() *account.Account {
	return w.acct
}

// Sync rescans the ledger and returns the number of unspent records found.
func (w *Wallet) Sync(l *ledger.Ledger) int {
	w.clear()

	// find my records
	for i := 0; i < l.Len(); i++ {
		ciphertext := l.Ciphertext(i)
		if ciphertext == "" {
			continue
		}
		rec, err := record.Decrypt(ciphertext, w.acct.ViewKey())
		if err != nil {
			continue
		}

		// 1. the decrypted record must be the one committed on the ledger
		if !bytes.Equal(rec.CommitmentBytes(), l.Commitment(i)) {
			w.logger.Warn().Int("index", i).Msg("ciphertext does not match the ledger commitment")
			rec.Release()
			continue
		}

		// 2. skip records whose serial number is revealed
		sn, err := rec.SerialNumber(w.acct.PrivateKey())
		if err != nil || l.IsSpent(sn) {
			rec.Release()
			continue
		}

		w.records = append(w.records, rec)
	}
	w.logger.Debug().Int("records", len(w.records)).Msg("synced")
	return len(w.records)
}

func (w *Wallet) clear() {
	for _, rec := range w.records {
		rec.Release()
	}
	w.records = nil
}

// Records returns the unspent records found by the last Sync.
func (w *Wallet) Records() []*record.Record {
	return append([]*record.Record(nil), w.records...)
}

// Balance sums the values of the unspent records.
func (w *Wallet) Balance() *uint256.Int {
	ret := uint256.NewInt(0)
	for _, rec := range w.records {
		ret = ret.Add(ret, uint256.NewInt(rec.Value()))
	}
	return ret
}

// Transfer spends the smallest record that covers amount plus fee and
// returns the serialized transaction. The ledger is not modified.
func (w *Wallet) Transfer(asm *transaction.Assembler, l *ledger.Ledger, amount, fee uint64, to string) (string, error) {
	if asm.Params().ID() != l.Params().ID() {
		return "", types.NewError(types.ErrUnsupportedNetwork,
			fmt.Sprintf("assembler on %s cannot spend from a %s ledger", asm.Params(), l.Params()))
	}
	need := new(uint256.Int).Add(uint256.NewInt(amount), uint256.NewInt(fee))
	var input *record.Record
	for _, rec := range w.records {
		v := uint256.NewInt(rec.Value())
		if v.Lt(need) {
			continue
		}
		if input == nil || rec.Value() < input.Value() {
			input = rec
		}
	}
	if input == nil {
		return "", types.NewError(types.ErrInsufficientFunds,
			fmt.Sprintf("no single record covers %s", need.Dec()))
	}

	proof1, err := l.Prove(input.CommitmentBytes())
	if err != nil {
		return "", fmt.Errorf("record proof: %w", err)
	}
	proof2, err := l.ProveProgram(input.ProgramID())
	if err != nil {
		return "", fmt.Errorf("program proof: %w", err)
	}
	return asm.BuildTransfer(input, proof1, proof2, w.acct.PrivateKey().String(), amount, fee, to)
}

var errNoAccount = errors.New("wallet has no account")

// Release drops the tracked records and the account secrets.
func (w *Wallet) Release() error {
	if w.acct == nil {
		return errNoAccount
	}
	w.clear()
	w.acct.Release()
	w.acct = nil
	return nil
}
