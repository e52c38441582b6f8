package media

import "context"

// Transcoder defines the interface to the external audio/video transcoder.
// This is a port that can be implemented by different infrastructure adapters.
type Transcoder interface {
	// ExtractAudio pulls the audio track out of a video container and writes
	// a standalone audio file to outputPath.
	ExtractAudio(ctx context.Context, req *ExtractRequest, outputPath string) error

	// Combine merges the video stream of one input with the audio stream of
	// another into a new container at outputPath. The video stream is copied
	// without re-encoding and the output is truncated to the shorter input.
	Combine(ctx context.Context, req *CombineRequest, outputPath string) error
}
