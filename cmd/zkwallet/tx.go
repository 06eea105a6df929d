package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kysee/zkwallet/utils"
	"github.com/kysee/zkwallet/zk-wallet/account"
	"github.com/kysee/zkwallet/zk-wallet/record"
	"github.com/kysee/zkwallet/zk-wallet/transaction"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func GetTxCommand() cli.Command {
	return cli.Command{
		Name:  "tx",
		Usage: "assemble and inspect transactions",
		Subcommands: []cli.Command{
			{
				Name:   "coinbase",
				Usage:  "mint value to an address",
				Action: coinbaseTx,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "to, t", Usage: "recipient `ADDRESS`", Required: true},
					cli.Uint64Flag{Name: "value, v", Usage: "minted `VALUE`", Required: true},
				},
			},
			{
				Name:   "transfer",
				Usage:  "spend a record",
				Action: transferTx,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "record, r", Usage: "the input record `JSON`", Required: true},
					cli.StringFlag{Name: "private-key, k", Usage: "the spender's private `KEY`", Required: true},
					cli.StringSliceFlag{Name: "ledger-proof, l", Usage: "ledger `PROOF`, given twice: record then program path", Required: true},
					cli.Uint64Flag{Name: "amount, a", Usage: "transferred `AMOUNT`", Required: true},
					cli.Uint64Flag{Name: "fee, f", Usage: "transaction `FEE`"},
					cli.StringFlag{Name: "to, t", Usage: "recipient `ADDRESS`", Required: true},
				},
			},
			{
				Name:   "inspect",
				Usage:  "decode a transaction and optionally decrypt its outputs",
				Action: inspectTx,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "tx", Usage: "the serialized `TX`", Required: true},
					cli.StringFlag{Name: "view-key, k", Usage: "decrypt outputs with this view `KEY`"},
				},
			},
		},
	}
}

func newAssembler(c *cli.Context) (*transaction.Assembler, error) {
	params, err := networkParams(c)
	if err != nil {
		return nil, err
	}
	if params == nil {
		return nil, errors.New("transactions need a network")
	}
	return transaction.NewAssembler(params, transaction.WithLogger(logger)), nil
}

func coinbaseTx(c *cli.Context) error {
	asm, err := newAssembler(c)
	if err != nil {
		return err
	}
	tx, err := asm.BuildCoinbase(c.String("to"), c.Uint64("value"), utils.RandBytes(record.RandomnessSize))
	if err != nil {
		return errors.Wrap(err, "failed to build coinbase")
	}
	fmt.Println(tx)
	return nil
}

func transferTx(c *cli.Context) error {
	proofs := c.StringSlice("ledger-proof")
	if len(proofs) != 2 {
		return errors.Errorf("expected 2 ledger proofs, got %d", len(proofs))
	}
	asm, err := newAssembler(c)
	if err != nil {
		return err
	}
	input, err := parseRecord(c.String("record"))
	if err != nil {
		return err
	}
	defer input.Release()

	tx, err := asm.BuildTransfer(input, proofs[0], proofs[1], c.String("private-key"),
		c.Uint64("amount"), c.Uint64("fee"), c.String("to"))
	if err != nil {
		return errors.Wrap(err, "failed to build transfer")
	}
	fmt.Println(tx)
	return nil
}

type txSummary struct {
	Version       uint8            `json:"version"`
	Network       uint16           `json:"network"`
	Kind          string           `json:"kind"`
	SerialNumbers []hexutil.Bytes  `json:"serial_numbers"`
	Commitments   []hexutil.Bytes  `json:"commitments"`
	Minted        uint64           `json:"minted"`
	Fee           uint64           `json:"fee"`
	LedgerProofs  []string         `json:"ledger_proofs"`
	SignatureOK   bool             `json:"signature_ok"`
	Owned         []*record.Record `json:"owned,omitempty"`
}

func inspectTx(c *cli.Context) error {
	tx, err := transaction.Parse(c.String("tx"))
	if err != nil {
		return errors.Wrap(err, "failed to parse transaction")
	}

	summary := &txSummary{
		Version:      tx.Version,
		Network:      tx.Network,
		Kind:         tx.Kind.String(),
		Minted:       tx.Minted,
		Fee:          tx.Fee,
		LedgerProofs: tx.LedgerProofs,
		SignatureOK:  tx.VerifySignature() == nil,
	}
	for _, sn := range tx.SerialNumbers {
		summary.SerialNumbers = append(summary.SerialNumbers, sn)
	}
	for _, out := range tx.Outputs {
		summary.Commitments = append(summary.Commitments, out.Commitment)
	}
	if asm, err := newAssembler(c); err == nil && asm.Params().ID() != tx.Network {
		logger.Warn().Uint16("tx_network", tx.Network).Str("network", asm.Params().String()).Msg("transaction is for another network")
	}

	if c.IsSet("view-key") {
		vk, err := account.ParseViewKey(c.String("view-key"))
		if err != nil {
			return errors.Wrap(err, "view key")
		}
		recs, err := tx.DecryptOutputs(vk)
		if err != nil {
			return errors.Wrap(err, "failed to decrypt outputs")
		}
		for _, rec := range recs {
			if rec != nil {
				summary.Owned = append(summary.Owned, rec)
			}
		}
	}
	return printJSON(summary)
}
