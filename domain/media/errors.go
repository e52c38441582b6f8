package media

import "fmt"

// ExtractionError reports a failed audio-extraction stage. It carries the
// underlying transcoder cause, including the no-audio-track case.
type ExtractionError struct {
	Source string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("audio extraction failed for %s: %v", e.Source, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// CombineError reports a failed audio/video merge stage.
type CombineError struct {
	OutputPath string
	Err        error
}

func (e *CombineError) Error() string {
	return fmt.Sprintf("combining streams into %s failed: %v", e.OutputPath, e.Err)
}

func (e *CombineError) Unwrap() error {
	return e.Err
}
