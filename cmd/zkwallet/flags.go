package main

import (
	"strings"

	"github.com/kysee/zkwallet/zk-wallet/network"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// networkParams resolves the global network flag. "none" selects no network.
func networkParams(c *cli.Context) (*network.Params, error) {
	tag := c.GlobalString("network")
	if tag == "" || strings.EqualFold(tag, "none") {
		return nil, nil
	}
	params, err := network.Lookup(tag)
	return params, errors.Wrap(err, "network flag")
}
