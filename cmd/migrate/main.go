package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"unires/config"
	"unires/helper"
	"unires/shared/logger"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction (up/down/drop/step-up) is required")
	}

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	if err := helper.Runner(cfg, helper.Action(os.Args[1])); err != nil {
		log.Fatal().Err(err).Str("action", os.Args[1]).Msg("Migration failed")
	}
}
