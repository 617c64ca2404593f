package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"restaurant-ordering/internal/app/admin"
	"restaurant-ordering/internal/app/api"
	"restaurant-ordering/internal/app/notify"
	"restaurant-ordering/internal/common/logger"
	"restaurant-ordering/internal/config"
)

func main() {
	mode := flag.String("mode", "api", "api | create-admin | notification-subscriber")
	cfgPath := flag.String("config", "config.yaml", "path to YAML config")
	port := flag.Int("port", 0, "api: http port (overrides config)")
	username := flag.String("admin-user", "admin", "create-admin: username")
	password := flag.String("admin-password", "", "create-admin: password (or ADMIN_PASSWORD)")
	flag.Parse()

	lg := logger.New("bootstrap")
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": *cfgPath})
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "api":
		lg = logger.New("restaurant-api")
		lg.SetLevel(cfg.LogLevel)
		lg.Info("service_started", map[string]any{"service": "restaurant-api", "port": cfg.HTTP.Port})
		err = api.Run(ctx, cfg, lg)
	case "create-admin":
		lg.SetLevel(cfg.LogLevel)
		pw := *password
		if pw == "" {
			pw = os.Getenv("ADMIN_PASSWORD")
		}
		err = admin.Create(ctx, cfg, lg, *username, pw)
		if err == nil {
			fmt.Printf("admin user %q created\n", *username)
		}
	case "notification-subscriber":
		lg = logger.New("notification-subscriber")
		lg.SetLevel(cfg.LogLevel)
		lg.Info("service_started", map[string]any{"service": "notification-subscriber"})
		err = notify.Run(ctx, cfg, lg)
	default:
		fmt.Fprintln(os.Stderr, "--mode must be one of: api | create-admin | notification-subscriber")
		os.Exit(2)
	}
	if err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
}
