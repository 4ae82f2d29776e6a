package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sains1/flashapi/app/lib/http"
	"github.com/sains1/flashapi/app/store"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("component", "main").Logger()

	conf, err := parseArgs(os.Args[1:])
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid arguments")
	}

	if conf.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	logger.Debug().Interface("config", conf).Msg("Parsed config")

	users, err := newUserStore(conf)
	if err != nil {
		logger.Fatal().Err(err).Str("store", conf.Store).Msg("Failed to open user store")
	}

	httpLogger := log.With().Str("component", "http").Logger()
	server := http.NewHttpServer(http.ServerConfig{
		Logger:       &httpLogger,
		State:        &AppState{Users: users},
		MethodPolicy: conf.methodPolicy(),
		Mode:         conf.serveMode(),
	})

	if err := registerRoutes(server); err != nil {
		logger.Fatal().Err(err).Msg("Failed to register routes")
	}

	if err := server.Listen(conf.Port); err != nil {
		logger.Fatal().Err(err).Int("port", conf.Port).Msg("Server stopped")
	}
}

func newUserStore(conf ServerConfig) (store.UserStore, error) {
	storeLogger := log.With().Str("component", "userstore").Logger()

	if conf.Store == "redis" {
		redisStore, err := store.NewRedisStore(conf.RedisAddr, conf.RedisPoolSize, storeLogger)
		if err != nil {
			return nil, err
		}
		return redisStore, nil
	}

	return store.NewKvStore(storeLogger), nil
}
