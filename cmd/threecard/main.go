package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Bot      BotCmd           `cmd:"" help:"Connect a built-in bot to a dealer"`
	Serve    ServeCmd         `cmd:"" help:"Run the dealer"`
	Simulate SimulateCmd      `cmd:"" help:"Play in-process matches and report results"`
	Decide   DecideCmd        `cmd:"" help:"Show the heuristic bot's decision for one spot"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("threecard"),
		kong.Description("Heads-up three-card discard poker bot and dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
