package extract

import (
	"context"

	"voiceswap/domain/media"
)

// Service coordinates the audio-extraction stage
type Service struct {
	transcoder media.Transcoder
	bitrate    string
}

// NewService creates a new extraction service
func NewService(transcoder media.Transcoder, bitrate string) *Service {
	if bitrate == "" {
		bitrate = media.DefaultAudioBitrate
	}
	return &Service{
		transcoder: transcoder,
		bitrate:    bitrate,
	}
}

// Extract pulls the audio track out of the source video into the output
// asset. A source with no audio track fails here like any other transcoder
// failure; there is no "nothing to swap" success path. The output path is
// expected to be workspace-tracked already, so any fragment the transcoder
// leaves behind on failure is cleaned up with the job.
func (s *Service) Extract(ctx context.Context, source, output media.Asset) error {
	req, err := media.NewExtractRequest(source.Path, s.bitrate)
	if err != nil {
		return &media.ExtractionError{Source: source.Path, Err: err}
	}

	if err := s.transcoder.ExtractAudio(ctx, req, output.Path); err != nil {
		return &media.ExtractionError{Source: source.Path, Err: err}
	}

	return nil
}
