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

// API process entrypoint.
// Data flow:
// 1) Load config, flags override env.
// 2) Build app wiring (room store + broadcaster + use cases).
// 3) Serve HTTP until SIGINT/SIGTERM, then drain streams and requests.
func main() {
	var overrides config.Overrides
	pflag.StringVar(&overrides.Addr, "addr", "", "listen address or port (overrides HTTP_PORT)")
	pflag.StringVar(&overrides.Store, "store", "", "room store: memory, redis, postgres or sqlite (overrides ROOM_STORE)")
	pflag.StringVar(&overrides.LogLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildAPI(ctx, overrides)
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Printf("ivote api stopped with error: %v", err)
	}
}
