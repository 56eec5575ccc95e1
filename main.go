package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ardnew/dolang/cli"
	"github.com/ardnew/dolang/cli/cmd"
	"github.com/ardnew/dolang/log"
	"github.com/ardnew/dolang/pkg"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)

	stop()

	if err != nil {
		log.Debug("run failed", slog.Any("error", err))

		var ce *cmd.Error
		if errors.As(err, &ce) {
			fmt.Fprint(os.Stderr, ce.Report())
		} else {
			fmt.Fprintln(os.Stderr, pkg.Name+": "+err.Error())
		}

		os.Exit(1)
	}
}
