package main

import (
	"context"
	"fmt"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"

	"github.com/Tyrowin/roomchat/internal/logger"
	"github.com/Tyrowin/roomchat/internal/server"
)

func main() {
	cfg := server.NewConfigFromEnv()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid LOG_LEVEL: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting chat relay",
		zap.String("port", cfg.Port),
		zap.Strings("allowedOrigins", cfg.AllowedOrigins),
		zap.Int("historyLimit", cfg.HistoryLimit))

	srv := server.New(cfg, log)
	srv.Start()

	httpServer := server.CreateServer(cfg.Port, srv.Routes())
	go func() {
		if err := server.StartServer(httpServer, log); err != nil {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return server.ShutdownServer(ctx, httpServer, log)
			},
			"hub": func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Info("chat relay exited", zap.Int("code", exitCode))
	_ = log.Sync()
	os.Exit(exitCode)
}
