// giraffen-voice runs the realtime travel assistant from a terminal:
// microphone in, assistant speech out, map commands on the log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bila9630/giraffen-voice/internal/audiodev"
	"github.com/bila9630/giraffen-voice/internal/config"
	"github.com/bila9630/giraffen-voice/internal/dotenv"
	"github.com/bila9630/giraffen-voice/internal/mapbox"
	"github.com/bila9630/giraffen-voice/pkg/session"
	"github.com/bila9630/giraffen-voice/pkg/tools"
	"github.com/bila9630/giraffen-voice/pkg/travel"
	"github.com/bila9630/giraffen-voice/pkg/travel/pgstore"
	"github.com/bila9630/giraffen-voice/pkg/voice"
)

func main() {
	os.Exit(run())
}

func run() int {
	envFile := flag.String("env-file", ".env", "dotenv file to load before reading the environment")
	flag.Parse()

	if err := dotenv.LoadFile(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runSession(ctx, logger, cfg); err != nil {
		logger.Error("session failed", "error", err)
		return 1
	}
	return 0
}

func runSession(ctx context.Context, logger *slog.Logger, cfg config.Config) error {
	store, closeStore, err := openStore(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ui := &consoleUI{logger: logger}
	view := mapbox.NewView(mapbox.NewClient(cfg.MapboxToken), ui, logger)
	dispatcher := tools.NewDispatcher(store, view, ui, logger)

	capture := voice.NewCapture(audiodev.NewMicrophone(), logger)
	player := voice.NewPlayer(audiodev.OpenSpeaker, voice.NewRealClock(), logger)

	ctrl := session.NewController(
		session.WebsocketDialer(cfg.RealtimeURL),
		capture, player, dispatcher, ui, logger,
	)

	logger.Info("connecting", "url", cfg.RealtimeURL)
	if err := ctrl.Connect(ctx, cfg.OpenAIKey); err != nil {
		return err
	}
	defer ctrl.Disconnect()

	logger.Info("session running, press ctrl-c to hang up")
	<-ctx.Done()
	logger.Info("hanging up")
	return nil
}

func openStore(ctx context.Context, logger *slog.Logger, cfg config.Config) (travel.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("using built-in POI dataset")
		return travel.NewStaticStore(), func() {}, nil
	}
	store, err := pgstore.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using Postgres POI store")
	return store, store.Close, nil
}
