package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/taskflow/config.toml)")
	refresh := flag.Duration("refresh", 0, "reload the item list at this interval (optional, 0 disables)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, RefreshEvery: *refresh}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "taskflow: %v\n", err)
		return 1
	}
	return 0
}
