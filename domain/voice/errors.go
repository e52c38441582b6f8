package voice

import "fmt"

// TransformationError reports a failed voice-transformation stage: the
// service rejected the request, the network call failed, or the response
// stream terminated abnormally.
type TransformationError struct {
	Voice Identity
	Err   error
}

func (e *TransformationError) Error() string {
	return fmt.Sprintf("voice transformation with %s failed: %v", e.Voice, e.Err)
}

func (e *TransformationError) Unwrap() error {
	return e.Err
}
