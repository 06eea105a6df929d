package record

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kysee/zkwallet/zk-wallet/account"
	"github.com/kysee/zkwallet/zk-wallet/types"
)

// JSON is a helper struct for JSON serialization.
type JSON struct {
	Owner                string        `json:"owner"`
	Value                uint64        `json:"value"`
	Payload              hexutil.Bytes `json:"payload"`
	ProgramID            string        `json:"program_id"`
	SerialNumberNonce    string        `json:"serial_number_nonce"`
	CommitmentRandomness string        `json:"commitment_randomness"`
	Commitment           string        `json:"commitment"`
}

// MarshalJSON implements the marshaller interface.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(JSON{
		Owner:                r.owner.String(),
		Value:                r.value,
		Payload:              r.payload.Bytes(),
		ProgramID:            r.programID,
		SerialNumberNonce:    r.SerialNumberNonce(),
		CommitmentRandomness: r.CommitmentRandomness(),
		Commitment:           r.Commitment(),
	})
}

// UnmarshalJSON implements the marshaller interface. The commitment is
// recomputed and, when present, must match the encoded one.
func (r *Record) UnmarshalJSON(b []byte) error {
	temp := &JSON{}
	if err := json.Unmarshal(b, temp); err != nil {
		return err
	}

	addr, err := account.ParseAddress(temp.Owner)
	if err != nil {
		return err
	}
	rec, err := FromRecordWithProgram(addr, temp.Value, temp.Payload, temp.ProgramID,
		temp.SerialNumberNonce, temp.CommitmentRandomness)
	if err != nil {
		return err
	}
	if temp.Commitment != "" && temp.Commitment != rec.Commitment() {
		return types.NewError(types.ErrInvalidEncoding,
			fmt.Sprintf("commitment mismatch: expected(%s), got(%s)", rec.Commitment(), temp.Commitment))
	}

	*r = *rec
	return nil
}
