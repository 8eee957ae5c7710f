package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"itube-transcoder/config"
	"itube-transcoder/constant"
	"itube-transcoder/dto"
	"itube-transcoder/storage"
	"itube-transcoder/workspace"
)

// StatusReporter pushes the terminal job state to the tracking backend.
type StatusReporter interface {
	UpdateProcessingStatus(ctx context.Context, sourceKey string, status constant.ProcessingStatus) error
}

// Service runs the whole download/transcode/upload/report workflow for a
// single source video.
type Service interface {
	Process(ctx context.Context) error
}

type service struct {
	cfg      *config.Config
	store    storage.Gateway
	reporter StatusReporter
	runner   Runner
}

func NewService(cfg *config.Config, store storage.Gateway, reporter StatusReporter, runner Runner) Service {
	return &service{
		cfg:      cfg,
		store:    store,
		reporter: reporter,
		runner:   runner,
	}
}

// Process sequences acquire, download, transcode, upload and report. Any
// failure after the workspace is acquired triggers a best-effort FAILED
// report; the workspace is released on every exit path; the original error,
// never the reporting error, reaches the caller.
func (s *service) Process(ctx context.Context) (err error) {
	source := dto.SourceReference{Bucket: s.cfg.SourceBucket, Key: s.cfg.SourceKey}
	zerolog.Ctx(ctx).Info().
		Str("bucket", source.Bucket).
		Str("key", source.Key).
		Msg("beginning video processing workflow")

	ws, err := workspace.Acquire(s.cfg.WorkspaceDir)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to acquire workspace")
		return err
	}
	// Registered before the failure report so it runs last. A cleanup failure
	// only warns, it never overrides the decided job outcome.
	defer func() {
		if releaseErr := ws.Release(); releaseErr != nil {
			zerolog.Ctx(ctx).Warn().Err(releaseErr).Str("root", ws.Root).Msg("failed to clean workspace")
		}
	}()
	defer func() {
		if err == nil {
			return
		}
		if reportErr := s.reporter.UpdateProcessingStatus(ctx, source.Key, constant.ProcessingStatusFailed); reportErr != nil {
			zerolog.Ctx(ctx).Error().Err(reportErr).Msg("failed to report FAILED status")
		}
	}()

	if err = s.store.Download(ctx, source, ws.InputFile); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to download source object")
		return err
	}

	command := BuildTranscodeCommand(ws.InputFile, ws.OutputDir, s.cfg.Packaging)
	zerolog.Ctx(ctx).Info().
		Str("mode", string(s.cfg.Packaging)).
		Str("input", ws.InputFile).
		Str("output_dir", ws.OutputDir).
		Msg("transcoding source video")

	if _, err = s.runner.Run(ctx, command); err != nil {
		var transcodeErr *TranscodingError
		if errors.As(err, &transcodeErr) {
			zerolog.Ctx(ctx).Error().
				Int("exit_code", transcodeErr.ExitCode).
				Str("stderr", truncate(transcodeErr.Stderr, 2000)).
				Str("stdout", truncate(transcodeErr.Stdout, 1000)).
				Msg("encoder process failed")
		} else {
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to run encoder")
		}
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("bucket", s.cfg.ProcessedBucket).
		Str("prefix", source.Key).
		Msg("uploading transcoded artifacts")
	if err = s.store.UploadDirectory(ctx, s.cfg.ProcessedBucket, ws.OutputDir, source.Key); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to upload artifacts")
		return err
	}

	if err = s.reporter.UpdateProcessingStatus(ctx, source.Key, constant.ProcessingStatusCompleted); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to report COMPLETED status")
		return err
	}

	zerolog.Ctx(ctx).Info().Str("key", source.Key).Msg("video processing completed")
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
