package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ivote/internal/app/bootstrap"
	"ivote/internal/platform/config"

	"github.com/spf13/pflag"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config, flags override env.
// 2) Open the configured room store.
// 3) Sweep expired rooms on SWEEP_INTERVAL until SIGINT/SIGTERM.
func main() {
	var overrides config.Overrides
	pflag.StringVar(&overrides.Store, "store", "", "room store: memory, redis, postgres or sqlite (overrides ROOM_STORE)")
	pflag.StringVar(&overrides.LogLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildWorker(ctx, overrides)
	if err != nil {
		log.Fatalf("bootstrap worker failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("worker shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Printf("ivote worker stopped with error: %v", err)
	}
}
