package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/taxis/internal/cli"
	"github.com/alexanderramin/taxis/internal/cli/formatter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, formatter.Error(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp()
	defer func() {
		if err := app.Close(); err != nil {
			fmt.Fprintln(os.Stderr, formatter.Error(err))
		}
	}()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
