package transform

import (
	"context"
	"fmt"
	"io"
	"os"

	"voiceswap/domain/media"
	"voiceswap/domain/voice"
)

// Service coordinates the voice-transformation stage. The external service
// returns audio incrementally, so the stage streams the response straight to
// disk instead of buffering it in memory.
type Service struct {
	transformer voice.Transformer
}

// NewService creates a new transformation service
func NewService(transformer voice.Transformer) *Service {
	return &Service{transformer: transformer}
}

// Transform sends the extracted audio to the service and persists the
// returned stream to the output asset. The whole response is consumed and
// synced before the stage reports success, and the output handle is closed
// on both success and failure paths. An empty response is a failure.
func (s *Service) Transform(ctx context.Context, audio media.Asset, v voice.Identity, output media.Asset) (err error) {
	req, err := voice.NewTransformRequest(audio.Path, v)
	if err != nil {
		return &voice.TransformationError{Voice: v, Err: err}
	}

	stream, err := s.transformer.Transform(ctx, req)
	if err != nil {
		return &voice.TransformationError{Voice: v, Err: err}
	}
	defer stream.Close()

	out, err := os.Create(output.Path)
	if err != nil {
		return &voice.TransformationError{Voice: v, Err: fmt.Errorf("failed to create output file: %w", err)}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &voice.TransformationError{Voice: v, Err: fmt.Errorf("failed to close output file: %w", cerr)}
		}
	}()

	written, err := io.Copy(out, stream)
	if err != nil {
		return &voice.TransformationError{Voice: v, Err: fmt.Errorf("response stream terminated: %w", err)}
	}
	if written == 0 {
		return &voice.TransformationError{Voice: v, Err: fmt.Errorf("service returned an empty response")}
	}

	// The next stage reads this file; make sure it is durably written first.
	if err := out.Sync(); err != nil {
		return &voice.TransformationError{Voice: v, Err: fmt.Errorf("failed to flush output file: %w", err)}
	}

	return nil
}
