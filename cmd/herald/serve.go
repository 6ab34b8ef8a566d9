package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pbittencourt/herald/internal/broadcast"
	"github.com/pbittencourt/herald/internal/config"
	"github.com/pbittencourt/herald/internal/db"
	"github.com/pbittencourt/herald/internal/gateway/bridge"
	"github.com/pbittencourt/herald/internal/server"
	"github.com/pbittencourt/herald/internal/session"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the broadcast API server",
		Long:  "Starts the HTTP API, connects the messaging bridge, and serves broadcasts until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, debug)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "herald.yaml", "path to herald config file")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func runServe(configPath string, debug bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level, debug)

	gdb, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}

	machine := session.NewMachine()
	gw, err := bridge.New(bridge.Opts{
		URL:            cfg.Bridge.URL,
		CredentialsDir: cfg.Bridge.CredentialsDir,
		FetchTimeout:   cfg.FetchTimeout(),
	})
	if err != nil {
		return err
	}
	dispatcher := broadcast.New(gdb, gw, machine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	go machine.Run(ctx, gw.Events())
	if err := gw.Connect(ctx); err != nil {
		return err
	}
	defer gw.Close()

	cronner := cron.New()
	retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
	if err := broadcast.SchedulePrune(cronner, gdb, cfg.History.PruneSchedule, retention); err != nil {
		return err
	}
	cronner.Start()
	defer cronner.Stop()

	log.Info().Int("port", cfg.Server.Port).Str("bridge", cfg.Bridge.URL).Msg("herald serving")
	return server.Start(ctx, server.Opts{
		DB:             gdb,
		Gateway:        gw,
		Machine:        machine,
		Dispatcher:     dispatcher,
		Port:           cfg.Server.Port,
		CredentialsDir: cfg.Bridge.CredentialsDir,
	})
}

// loadConfig reads the config file, falling back to built-in defaults when
// none exists on disk.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func setupLogging(level string, debug bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
