package pipeline

import (
	"fmt"

	"voiceswap/domain/media"
	"voiceswap/domain/voice"

	"github.com/google/uuid"
)

// Job represents one voice-swap invocation. It tracks the job's status and
// the intermediate assets created so far. Jobs are not persisted; they are
// discarded once cleanup finishes.
type Job struct {
	ID         string
	Input      media.Asset
	Voice      voice.Identity
	OutputPath string

	status        Status
	intermediates []media.Asset
}

// NewJob creates a pending job with validation
func NewJob(input media.Asset, v voice.Identity, outputPath string) (*Job, error) {
	if input.IsZero() {
		return nil, fmt.Errorf("input video asset is required")
	}
	if input.Kind != media.KindVideo {
		return nil, fmt.Errorf("input asset must be a video, got %s", input.Kind)
	}
	if v == "" {
		return nil, fmt.Errorf("target voice identity is required")
	}
	if outputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if outputPath == input.Path {
		return nil, fmt.Errorf("output path must differ from the input path")
	}

	return &Job{
		ID:         uuid.NewString(),
		Input:      input,
		Voice:      v,
		OutputPath: outputPath,
		status:     StatusPending,
	}, nil
}

// Status returns the job's current status
func (j *Job) Status() Status {
	return j.status
}

// Transition advances the job to the next status, enforcing stage order.
func (j *Job) Transition(next Status) error {
	if !j.status.CanTransitionTo(next) {
		return fmt.Errorf("invalid job transition: %s -> %s", j.status, next)
	}
	j.status = next
	return nil
}

// Fail marks the job failed. Failing an already-terminal job is a no-op.
func (j *Job) Fail() {
	if !j.status.Terminal() {
		j.status = StatusFailed
	}
}

// AddIntermediate records an intermediate asset created for this job
func (j *Job) AddIntermediate(a media.Asset) {
	j.intermediates = append(j.intermediates, a)
}

// Intermediates returns the intermediate assets recorded so far, in creation order
func (j *Job) Intermediates() []media.Asset {
	out := make([]media.Asset, len(j.intermediates))
	copy(out, j.intermediates)
	return out
}
