package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegen/cmd/sitegen/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	var cli commands.CLI
	g := commands.NewGlobal(ctx, os.Stdout, os.Stderr)
	parser, err := commands.NewParser(&cli, g)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}

	code := commands.Run(parser, &cli, g, os.Args[1:])
	stop()
	os.Exit(code)
}
