package main

import (
	"net/url"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := LoadConfig()
	logger := setupLogger(cfg.LogLevel)

	var (
		repo *SQLRepository
		err  error
	)

	logger.Info().Str("db_url", cfg.DBURL).Msg("connecting to database")
	u, parseErr := url.Parse(cfg.DBURL)
	if parseErr != nil {
		logger.Fatal().Err(parseErr).Msg("invalid DB_URL")
	}
	switch u.Scheme {
	case "sqlite":
		repo, err = NewSQLiteRepository(strings.TrimPrefix(cfg.DBURL, "sqlite://"))
	case "postgres":
		repo, err = NewPostgresRepository(cfg.DBURL)
	default:
		logger.Fatal().Str("scheme", u.Scheme).Msg("unsupported DB_URL scheme")
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}

	service := &ServiceImpl{
		userRepo:     repo,
		artistRepo:   repo,
		albumRepo:    repo,
		trackRepo:    repo,
		playlistRepo: repo,
	}
	defer service.close()

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seedDemoData(service, logger); err != nil {
			logger.Fatal().Err(err).Msg("seeding failed")
		}
		return
	}

	sessions := NewSessionStore(cfg.SessionTTL)

	jukebox := NewJukebox(service, time.Second, logger)
	jukebox.Start()
	defer jukebox.Shutdown()

	echoRouter := NewHTTPRouter(service, jukebox, sessions, []byte(cfg.JWTSecret), logger)
	if err := echoRouter.Start(cfg.Addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
