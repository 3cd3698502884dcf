package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/studyplanner-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := app.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(ctx, log)
	if err != nil {
		log.Error("Failed to init app", "error", err)
		log.Sync()
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Start(ctx); err != nil {
		log.Error("Failed to start background workers", "error", err)
		a.Close()
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		log.Error("Server failed", "error", err)
		a.Close()
		os.Exit(1)
	}
	log.Info("Server stopped")
}
