package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kysee/zkwallet/zk-wallet/account"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func GetAccountCommand() cli.Command {
	return cli.Command{
		Name:  "account",
		Usage: "create or inspect accounts",
		Subcommands: []cli.Command{
			{
				Name:   "new",
				Usage:  "create an account from a random or given seed",
				Action: newAccount,
				Flags: []cli.Flag{
					cli.StringFlag{
						Name:  "seed",
						Usage: "derive from the 0x prefixed `HEX` seed instead of a random one",
					},
				},
			},
			{
				Name:   "show",
				Usage:  "print the view key and address of a private key",
				Action: showAccount,
				Flags: []cli.Flag{
					cli.StringFlag{
						Name:     "private-key, k",
						Usage:    "the private `KEY`",
						Required: true,
					},
				},
			},
		},
	}
}

func newAccount(c *cli.Context) error {
	params, err := networkParams(c)
	if err != nil {
		return err
	}

	var seed []byte
	if c.IsSet("seed") {
		if seed, err = hexutil.Decode(c.String("seed")); err != nil {
			return errors.Wrap(err, "seed")
		}
	} else if seed, err = account.NewSeed(); err != nil {
		return errors.Wrap(err, "failed to create seed")
	}

	acct, err := account.FromSeed(seed, params)
	if err != nil {
		return errors.Wrap(err, "failed to derive account")
	}
	defer acct.Release()

	logger.Debug().Str("address", acct.Address().String()).Msg("created account")
	printAccount(acct)
	return nil
}

func showAccount(c *cli.Context) error {
	acct, err := account.FromSecret(c.String("private-key"))
	if err != nil {
		return errors.Wrap(err, "failed to load account")
	}
	defer acct.Release()

	printAccount(acct)
	return nil
}

func printAccount(acct *account.Account) {
	fmt.Printf("PrivateKey: %s\n", acct.PrivateKey())
	fmt.Printf("ViewKey:    %s\n", acct.ViewKey())
	fmt.Printf("Address:    %s\n", acct.Address())
}
