package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"launcharc/internal/core/countdown"
	"launcharc/internal/core/model"
	"launcharc/internal/core/projector"
	"launcharc/internal/core/timeline"
	"launcharc/internal/gateway"
	"launcharc/internal/storage"
	"launcharc/resources"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(logLevel(os.Getenv("LAUNCHARC_LOG_LEVEL")))

	port := getEnv("LAUNCHARC_PORT", "8090")
	profilePath := os.Getenv("LAUNCHARC_PROFILE")
	fps := getEnvInt("LAUNCHARC_FPS", 20)

	profile := resources.MustDefaultProfile()
	if profilePath != "" {
		loaded, err := storage.LoadProfileFile(profilePath)
		if err != nil {
			log.Warn().Err(err).Str("path", profilePath).Msg("profile load failed, using defaults")
		} else {
			profile = loaded
		}
	}

	clock := clockwork.NewRealClock()
	timer := countdown.New(clock, countdown.DefaultConfig())
	engine, err := timeline.New(timer, profile, projector.NewGeometry(1920, 200, 64), timeline.DefaultOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("profile rejected")
	}
	defer engine.Dispose()

	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.SnapshotInterval = time.Second / time.Duration(fps)
	if origins := os.Getenv("LAUNCHARC_ALLOWED_ORIGINS"); origins != "" {
		gatewayConfig.AllowedOrigins = strings.Split(origins, ",")
	}
	if profilePath != "" {
		gatewayConfig.OnProfileChange = func(updated model.MissionProfile) {
			if err := storage.SaveProfileFile(profilePath, updated); err != nil {
				log.Error().Err(err).Str("path", profilePath).Msg("save profile")
			}
		}
	}

	service := gateway.NewService(gatewayConfig, engine, clock)

	log.Info().
		Str("port", port).
		Str("mission", profile.MissionName).
		Int("fps", fps).
		Msg("starting launcharc server")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      service.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := service.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gateway service failed")
		}
	}()

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	cancel()

	log.Info().Msg("launcharc server shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func logLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(raw)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
