package cmd

import (
	"context"
	"os"
	"os/exec"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"itube-transcoder/backend"
	"itube-transcoder/config"
	"itube-transcoder/constant"
	"itube-transcoder/service"
	"itube-transcoder/storage"
)

func transcode(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "transcode",
		Short: "download, transcode and publish one source video",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogger(cfg)

			if _, err := exec.LookPath("ffmpeg"); err != nil {
				zerolog.Ctx(ctx).Warn().Msg("ffmpeg was not found on PATH, transcoding will fail unless it is installed")
			}

			gateway := storage.NewGateway(cfg.Storage)
			reporter := backend.NewClient(cfg.Backend.URL, cfg.Backend.Service, cfg.AWS)
			svc := service.NewService(cfg, gateway, reporter, service.NewRunner())
			return svc.Process(ctx)
		},
	}
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("job_id", uuid.NewString()).
		Logger()

	return logger.WithContext(context.Background())
}
