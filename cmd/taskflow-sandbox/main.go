package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/diaglog"
	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/sandbox"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", ":8000", "listen address")
	dbPath := flag.String("db", "", "SQLite database path (empty keeps items in memory)")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	failRate := flag.Float64("fail-rate", 0, "probability of answering with -fail-code")
	failCode := flag.Int("fail-code", http.StatusInternalServerError, "status code for injected failures")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger, err := diaglog.NewStdout(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskflow-sandbox: init logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	db, err := sandbox.OpenSQLite(*dbPath)
	if err != nil {
		logger.Error("open database", zap.Error(err))
		return 1
	}
	defer db.Close()

	repo, err := sandbox.NewRepository(db)
	if err != nil {
		logger.Error("init repository", zap.Error(err))
		return 1
	}

	server := &http.Server{
		Addr: *addr,
		Handler: sandbox.New(repo, logger, sandbox.Options{
			Latency:  *latency,
			FailRate: *failRate,
			FailCode: *failCode,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.ListenAndServe()
	}()
	logger.Info("sandbox listening", zap.String("addr", *addr), zap.String("db", *dbPath))

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return 1
		}
	}
	logger.Info("sandbox stopped")
	return 0
}
