package combine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"voiceswap/domain/media"
)

// Renamer moves a finished staging file over the final output path. It is a
// seam over os.Rename for testing.
type Renamer interface {
	Rename(oldPath, newPath string) error
}

// Service coordinates the audio/video merge stage. The transcoder writes to
// a job-scoped staging path; only a fully-written result is renamed over the
// final output path, so the output is never observed partially written.
type Service struct {
	transcoder media.Transcoder
	renamer    Renamer
}

// NewService creates a new combine service
func NewService(transcoder media.Transcoder, renamer Renamer) *Service {
	return &Service{
		transcoder: transcoder,
		renamer:    renamer,
	}
}

// Input represents the inputs to a combine operation. StagingPath must be a
// workspace-tracked sibling of OutputPath so a failed merge leaves nothing
// behind once cleanup runs, and the rename stays on one filesystem.
type Input struct {
	Video       media.Asset
	Audio       media.Asset
	OutputPath  string
	StagingPath string
}

// Combine merges the original video stream with the replacement audio and
// exposes the result at the output path only on success.
func (s *Service) Combine(ctx context.Context, input Input) (media.Asset, error) {
	req, err := media.NewCombineRequest(input.Video.Path, input.Audio.Path)
	if err != nil {
		return media.Asset{}, &media.CombineError{OutputPath: input.OutputPath, Err: err}
	}
	if input.StagingPath == "" {
		return media.Asset{}, &media.CombineError{OutputPath: input.OutputPath, Err: fmt.Errorf("staging path is required")}
	}

	if err := os.MkdirAll(filepath.Dir(input.OutputPath), 0o755); err != nil {
		return media.Asset{}, &media.CombineError{OutputPath: input.OutputPath, Err: err}
	}

	if err := s.transcoder.Combine(ctx, req, input.StagingPath); err != nil {
		return media.Asset{}, &media.CombineError{OutputPath: input.OutputPath, Err: err}
	}

	if err := s.renamer.Rename(input.StagingPath, input.OutputPath); err != nil {
		return media.Asset{}, &media.CombineError{
			OutputPath: input.OutputPath,
			Err:        fmt.Errorf("failed to publish combined output: %w", err),
		}
	}

	result, err := media.NewAsset(input.OutputPath, media.KindVideo)
	if err != nil {
		return media.Asset{}, &media.CombineError{OutputPath: input.OutputPath, Err: err}
	}
	return result, nil
}
