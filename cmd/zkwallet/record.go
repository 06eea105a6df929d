package main

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kysee/zkwallet/utils"
	"github.com/kysee/zkwallet/zk-wallet/account"
	"github.com/kysee/zkwallet/zk-wallet/record"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func GetRecordCommand() cli.Command {
	return cli.Command{
		Name:  "record",
		Usage: "create, encrypt and decrypt records",
		Subcommands: []cli.Command{
			{
				Name:   "new",
				Usage:  "create a record and print it as JSON",
				Action: newRecord,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "owner, o", Usage: "owner `ADDRESS`", Required: true},
					cli.Uint64Flag{Name: "value, v", Usage: "record `VALUE`"},
					cli.StringFlag{Name: "payload, p", Usage: "0x prefixed `HEX` payload"},
				},
			},
			{
				Name:   "encrypt",
				Usage:  "encrypt a JSON record to its owner",
				Action: encryptRecord,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "record, r", Usage: "the record `JSON`", Required: true},
				},
			},
			{
				Name:   "decrypt",
				Usage:  "decrypt a record ciphertext and print it as JSON",
				Action: decryptRecord,
				Flags: []cli.Flag{
					cli.StringFlag{Name: "ciphertext, c", Usage: "the record `CIPHERTEXT`", Required: true},
					cli.StringFlag{Name: "view-key, k", Usage: "the owner's view `KEY`", Required: true},
				},
			},
		},
	}
}

func newRecord(c *cli.Context) error {
	owner, err := account.ParseAddress(c.String("owner"))
	if err != nil {
		return errors.Wrap(err, "owner")
	}
	var payload []byte
	if c.IsSet("payload") {
		if payload, err = hexutil.Decode(c.String("payload")); err != nil {
			return errors.Wrap(err, "payload")
		}
	}

	rec, err := record.NewInputRecord(owner, c.Uint64("value"), payload, utils.RandBytes(record.RandomnessSize))
	if err != nil {
		return errors.Wrap(err, "failed to create record")
	}
	defer rec.Release()
	return printJSON(rec)
}

func encryptRecord(c *cli.Context) error {
	rec, err := parseRecord(c.String("record"))
	if err != nil {
		return err
	}
	defer rec.Release()

	ciphertext, err := rec.Encrypt(utils.RandBytes(record.RandomnessSize))
	if err != nil {
		return errors.Wrap(err, "failed to encrypt record")
	}
	fmt.Println(ciphertext)
	return nil
}

func decryptRecord(c *cli.Context) error {
	vk, err := account.ParseViewKey(c.String("view-key"))
	if err != nil {
		return errors.Wrap(err, "view key")
	}
	rec, err := record.Decrypt(c.String("ciphertext"), vk)
	if err != nil {
		return errors.Wrap(err, "failed to decrypt record")
	}
	defer rec.Release()
	return printJSON(rec)
}

func parseRecord(s string) (*record.Record, error) {
	rec := &record.Record{}
	if err := json.Unmarshal([]byte(s), rec); err != nil {
		return nil, errors.Wrap(err, "record")
	}
	return rec, nil
}

func printJSON(v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(bz))
	return nil
}
