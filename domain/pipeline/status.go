package pipeline

// Status is the runtime state of a swap job.
type Status string

const (
	StatusPending      Status = "pending"
	StatusExtracting   Status = "extracting"
	StatusTransforming Status = "transforming"
	StatusCombining    Status = "combining"
	StatusSucceeded    Status = "succeeded"
	StatusFailed       Status = "failed"
)

// Terminal reports whether the status is terminal (finished).
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a transition to next is allowed. Stages
// advance strictly in order; Failed is reachable from any non-terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	if next == StatusFailed {
		return !s.Terminal()
	}

	switch s {
	case StatusPending:
		return next == StatusExtracting
	case StatusExtracting:
		return next == StatusTransforming
	case StatusTransforming:
		return next == StatusCombining
	case StatusCombining:
		return next == StatusSucceeded
	default:
		return false
	}
}
