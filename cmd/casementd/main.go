package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"casement/internal/config"
	"casement/internal/daemon"
	"casement/internal/logging"
	"casement/internal/windows"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	output, err := logging.FileOutput(os.Stdout, cfg.Paths.LogDir, "casementd.log")
	if err != nil {
		log.Fatalf("open log output: %v", err)
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: output,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	manager := windows.NewManager(cfg, logger)
	d, err := daemon.New(cfg, manager, logger)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start failed", logging.Args(logging.Error(err))...)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("casementd shutting down")
	d.Stop()
}
