package ffmpeg

import (
	"context"
	"fmt"

	"voiceswap/domain/media"
)

// Transcoder implements media.Transcoder using ffmpeg
type Transcoder struct {
	ffmpegPath string
	runner     CommandRunner
}

// TranscoderOption is a functional option for configuring Transcoder
type TranscoderOption func(*Transcoder)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) TranscoderOption {
	return func(t *Transcoder) {
		t.ffmpegPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) TranscoderOption {
	return func(t *Transcoder) {
		t.runner = runner
	}
}

// NewTranscoder creates a new FFmpeg-based transcoder
func NewTranscoder(opts ...TranscoderOption) *Transcoder {
	t := &Transcoder{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// ExtractAudio implements media.Transcoder. The audio track is always
// re-encoded to MP3 at the requested bitrate; the transformation service's
// input contract is pinned to that format.
func (t *Transcoder) ExtractAudio(ctx context.Context, req *media.ExtractRequest, outputPath string) error {
	args := []string{
		"-i", req.SourcePath,
		"-vn",                   // No video
		"-acodec", "libmp3lame", // MP3 codec
		"-ab", req.Bitrate,      // Audio bitrate
		"-y",                    // Overwrite output file if it exists
		outputPath,
	}

	if err := t.runner.Run(ctx, t.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg audio extraction failed: %w", err)
	}

	return nil
}

// Combine implements media.Transcoder. The video stream is copied without
// re-encoding, the replacement audio is encoded as AAC, streams are mapped
// explicitly (video from the first input, audio from the second), and the
// output is truncated to the shorter input.
func (t *Transcoder) Combine(ctx context.Context, req *media.CombineRequest, outputPath string) error {
	args := []string{
		"-i", req.VideoPath,
		"-i", req.AudioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		"-y",
		outputPath,
	}

	if err := t.runner.Run(ctx, t.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg stream combine failed: %w", err)
	}

	return nil
}

// Verify checks that ffmpeg is available
func (t *Transcoder) Verify(ctx context.Context) error {
	_, err := t.runner.Output(ctx, t.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Transcoder implements media.Transcoder
var _ media.Transcoder = (*Transcoder)(nil)
