package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hubarcade/wordle-engine/internal/hubapi"
	"github.com/hubarcade/wordle-engine/internal/httpserver"
	"github.com/hubarcade/wordle-engine/internal/storage"
	"github.com/hubarcade/wordle-engine/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	kv, err := storage.OpenSQLiteKV(getEnv("DB_PATH", "./data/wordle.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open saved-game store")
	}
	defer kv.Close()

	hub := hubapi.New(getEnv("HUB_API_URL", "http://localhost:3000"), 10*time.Second)

	dict := words.New()
	go dict.Load(context.Background(), hub)

	srv := httpserver.New(dict, kv, hub)
	go srv.FetchDailyPuzzle(context.Background(), hub, 10*time.Second)

	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting wordle-engine")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
