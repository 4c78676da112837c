package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"motel/config"
	"motel/di"
	"motel/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if err := di.InitializeAuth().Bootstrap(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap initial super admin")
	}

	http := di.InitializeService()
	http.Serve()
}
