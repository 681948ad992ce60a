package main

import (
	"log"
	"os"

	fragmentcli "github.com/jdiemke/fragment/cli"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "fragment",
		Usage: "Serve the event slider template fragment",
		Commands: []*clilib.Command{
			fragmentcli.InitCommand,
			fragmentcli.DevCommand,
			fragmentcli.ProdCommand,
			fragmentcli.CleanCommand,
			fragmentcli.CheckCommand,
			fragmentcli.InfoCommand,
		},
	}
	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}
