package cli

import (
	"github.com/jdiemke/fragment"

	"github.com/urfave/cli/v2"
)

const defaultPort = 8080

var portFlag = &cli.IntFlag{
	Name:    "port",
	Aliases: []string{"p"},
	Usage:   "port to listen on",
	EnvVars: []string{"FRAGMENT_PORT"},
	Value:   defaultPort,
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start the fragment server in dev mode (no caching, live reload)",
	Flags: []cli.Flag{portFlag},
	Action: func(c *cli.Context) error {
		return fragment.Start(fragment.RuntimeConfig{
			Env:         "dev",
			EnableCache: false,
			Port:        c.Int("port"),
		})
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Start the fragment server in production mode (caching on by default)",
	Flags: []cli.Flag{portFlag},
	Action: func(c *cli.Context) error {
		return fragment.Start(fragment.RuntimeConfig{
			Env:         "prod",
			EnableCache: true,
			Port:        c.Int("port"),
		})
	},
}
