package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/brettbedarf/docvault/internal/cmd"
	"github.com/charmbracelet/fang"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := fang.Execute(ctx, cmd.NewRootCmd()); err != nil {
		os.Exit(1)
	}
}
