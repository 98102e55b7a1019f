package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophboard/internal/buildinfo"
	"github.com/dmitrijs2005/gophboard/internal/client/cli"
	"github.com/dmitrijs2005/gophboard/internal/client/config"
	"github.com/dmitrijs2005/gophboard/internal/logging"
	"github.com/dmitrijs2005/gophboard/internal/telemetry"
)

const serviceName = "board-cli"

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	log := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := telemetry.Setup(ctx, serviceName, buildinfo.Version(), log)
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn(context.Background(), "telemetry shutdown failed", "error", err)
		}
	}()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", "error", err)
		return 1
	}

	if err := app.Run(ctx); err != nil {
		log.Error(ctx, "cli stopped with error", "error", err)
		return 1
	}
	return 0
}
