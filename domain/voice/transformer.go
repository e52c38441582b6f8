package voice

import (
	"context"
	"fmt"
	"io"
)

// Transformer defines the interface to the external speech-transformation
// service. This is a port that can be implemented by different
// infrastructure adapters.
type Transformer interface {
	// Transform sends the audio file to the service and returns the
	// transformed audio as a stream. The service returns data incrementally;
	// callers must drain and close the stream.
	Transform(ctx context.Context, req *TransformRequest) (io.ReadCloser, error)
}

// Enroller performs one-shot voice enrollment against the service. It is
// used by the surrounding application, never by the pipeline itself.
type Enroller interface {
	Enroll(ctx context.Context, req *EnrollmentRequest) (Identity, error)
}

// TransformRequest represents a request to re-voice an audio file
type TransformRequest struct {
	AudioPath string
	Voice     Identity
}

// NewTransformRequest creates a new TransformRequest with validation
func NewTransformRequest(audioPath string, voice Identity) (*TransformRequest, error) {
	if audioPath == "" {
		return nil, fmt.Errorf("audio path is required")
	}
	if voice == "" {
		return nil, fmt.Errorf("voice identity is required")
	}

	return &TransformRequest{
		AudioPath: audioPath,
		Voice:     voice,
	}, nil
}

// EnrollmentRequest represents a request to enroll a new target voice from
// sample recordings.
type EnrollmentRequest struct {
	Name        string
	SamplePaths []string
}

// NewEnrollmentRequest creates a new EnrollmentRequest with validation
func NewEnrollmentRequest(name string, samplePaths []string) (*EnrollmentRequest, error) {
	if name == "" {
		return nil, fmt.Errorf("voice name is required")
	}
	if len(samplePaths) == 0 {
		return nil, fmt.Errorf("at least one sample recording is required")
	}

	return &EnrollmentRequest{
		Name:        name,
		SamplePaths: samplePaths,
	}, nil
}
