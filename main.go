package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	"itube-transcoder/cmd"
	"itube-transcoder/config"
	"itube-transcoder/constant"
	"itube-transcoder/service"
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize transcoder")
		os.Exit(constant.ExitInit)
	}

	root := cmd.Root(cfg)
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var transcodeErr *service.TranscodingError
	if errors.As(err, &transcodeErr) {
		return constant.ExitTranscoding
	}
	return constant.ExitUnexpected
}
