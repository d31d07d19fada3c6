package main

import (
	"context"
	"flag"
	"os"

	"ridematch-tools/rmtools/config"
	t "ridematch-tools/rmtools/terminal"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&compareCmd{}, "")
	subcommands.Register(&statsCmd{}, "")

	port := flag.Int("port", 8080, "local port for the Strava OAuth callback")
	flag.Parse()

	cfg, err := config.Load(*port)
	if err != nil {
		t.Error(err, "Failed to load config")
		os.Exit(1)
	}

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx, cfg)))
}
