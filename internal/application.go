package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/stonegrid/gomoku-backend/internal/config"
	"github.com/stonegrid/gomoku-backend/internal/repository"
	"github.com/stonegrid/gomoku-backend/internal/repository/storage"
	"github.com/stonegrid/gomoku-backend/internal/usecase"
	"github.com/stonegrid/gomoku-backend/transport/rest"
	"github.com/stonegrid/gomoku-backend/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	// The match archive is the only redis consumer. Without a configured
	// host the server still runs every game, it just archives nothing.
	var archive usecase.MatchArchive

	if redisAddr := conf.Redis.GetRedisAddr(); redisAddr != "" {
		redisStorage, err := storage.New(ctx, redisAddr)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		archive = repository.NewArchive(redisStorage.Client, conf.Game.ArchiveTTL)

		log.Info("match archive enabled", "addr", redisAddr, "ttl", conf.Game.ArchiveTTL.String())
	} else {
		log.Info("match archive disabled: no redis host configured")
	}

	hub := websocket.NewHub(logger)
	gameManager := usecase.NewGameManager(logger, hub, archive, usecase.Timings{
		StartDelay: conf.Game.StartDelay,
		CloseGrace: conf.Game.CloseGrace,
		IdleTTL:    conf.Game.IdleTTL,
	})

	cleaner := usecase.NewCleaner(logger, gameManager, conf.Game.SweepInterval)
	go cleaner.Run(ctx)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, gameManager)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, hub, gameManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err := <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
