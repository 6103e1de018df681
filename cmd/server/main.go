package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/vincewoo/seatrush/internal/config"
	"github.com/vincewoo/seatrush/internal/seatrush"
	"github.com/vincewoo/seatrush/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	rooms := server.NewRooms(logger, server.RoomConfig{
		Duration:    cfg.GameDuration,
		SkipPenalty: cfg.SkipPenalty,
		DefaultGrid: seatrush.GridConfig{
			Columns: cfg.GridColumns,
			Rows:    cfg.GridRows,
			Total:   cfg.GridColumns * cfg.GridRows,
		},
	})

	srv := server.New(cfg.HTTPAddr, logger, rooms)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
