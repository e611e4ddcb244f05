package main

import (
	"database/sql"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bowling/internal/config"
	"github.com/robalobadob/bowling/internal/database"
	"github.com/robalobadob/bowling/internal/httpserver"
	"github.com/robalobadob/bowling/internal/names"
	"github.com/robalobadob/bowling/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := names.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load game name word lists")
	}

	// Users and high scores always live in SQLite; games go to cfg.Store.
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	st, closeStore := openStore(cfg, db)
	defer closeStore()

	srv := httpserver.New(cfg, st, db)
	log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Msg("starting bowling server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func openStore(cfg config.Config, db *sql.DB) (store.Store, func()) {
	switch store.Kind(cfg.Store) {
	case store.KindMemory:
		return store.NewMemoryStore(), func() {}
	case store.KindRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return store.NewRedisStore(rdb, cfg.Redis.Prefix), func() { _ = rdb.Close() }
	default:
		return store.NewSQLiteStore(db), func() {}
	}
}
