package main

import (
	"os"
	"time"

	"opregistro/internal/config"
	"opregistro/internal/database"
	"opregistro/internal/handlers"
	"opregistro/internal/refdata"
	"opregistro/internal/server"
	"opregistro/internal/uploads"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	if cfg.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	database.Init(cfg.DBPath)
	dataset := refdata.Load(cfg.DataDir)
	manager := uploads.New(cfg.UploadDir, cfg.MaxUploadMB)
	handlers.Setup(cfg, dataset, manager)

	r := server.New(cfg)
	log.Info().Str("porta", cfg.ServerPort).Msg("servidor iniciado")
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("servidor encerrou com erro")
	}
}
