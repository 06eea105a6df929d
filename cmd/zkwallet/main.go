package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli"
)

var logger = zerolog.Nop()

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "zkwallet"
	app.Usage = "accounts, confidential records and transactions"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "network, n",
			Value:  "testnet1",
			Usage:  "network `TAG` (testnet1, testnet2, mainnet, or none)",
			EnvVar: "ZKWALLET_NETWORK",
		},
		cli.StringFlag{
			Name:   "log-level",
			Value:  "info",
			Usage:  "log `LEVEL` (trace, debug, info, warn, error)",
			EnvVar: "ZKWALLET_LOG_LEVEL",
		},
	}
	app.Before = func(c *cli.Context) error {
		level, err := zerolog.ParseLevel(c.GlobalString("log-level"))
		if err != nil {
			return err
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
		return nil
	}
	app.Commands = []cli.Command{
		GetAccountCommand(),
		GetRecordCommand(),
		GetTxCommand(),
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("zkwallet failed")
		os.Exit(1)
	}
}
