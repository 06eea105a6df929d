package record

import (
	"github.com/kysee/zkwallet/utils"
	"github.com/kysee/zkwallet/zk-wallet/crypto"
)

const (
	commitmentDomain = "zkwallet.record.commitment"
	programIDDomain  = "zkwallet.record.program_id"
)

var commitmentTag = utils.FieldString(commitmentDomain, "v1")

// payloadChunkSize keeps every payload chunk below the field modulus, so no
// two payloads reduce to the same field elements.
const payloadChunkSize = utils.FieldSize - 1

// computeCommitment hashes every field as field elements.
// The payload length is committed separately because short chunks are padded.
func (r *Record) computeCommitment() []byte {
	p := r.owner.Point()
	ax := p.X.Bytes()
	ay := p.Y.Bytes()

	ins := [][]byte{
		commitmentTag,
		utils.FieldString(programIDDomain, r.programID),
		ax[:],
		ay[:],
		utils.FieldUint64(r.value),
		utils.FieldUint64(uint64(r.payload.Len)),
	}
	payload := r.payload.Bytes()
	for len(payload) > 0 {
		n := payloadChunkSize
		if n > len(payload) {
			n = len(payload)
		}
		ins = append(ins, payload[:n])
		payload = payload[n:]
	}
	ins = append(ins,
		crypto.ScalarBytes(r.serialNumberNonce),
		crypto.ScalarBytes(r.commitmentRandomness),
	)
	return utils.MiMCHash(ins...)
}
