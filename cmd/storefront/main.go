package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikolayk812/storefront-core/internal/cli"
	"github.com/nikolayk812/storefront-core/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	inv, err := cli.ParseInvocation(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stderr, cli.Usage)
			return usageErr.ExitCode
		}
		return cli.ExitInternalError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config.Load: %v\n", err)
		return cli.ExitConfigError
	}

	logger := config.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := wire(ctx, cfg, logger, os.Stdout)
	if err != nil {
		logger.WithError(err).Error("wire")
		return cli.ExitConfigError
	}
	defer app.close()

	code, err := cli.Execute(ctx, inv, app.App)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return code
}
