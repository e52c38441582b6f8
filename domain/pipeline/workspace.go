package pipeline

import (
	"fmt"

	"voiceswap/domain/media"
)

// Workspace issues collision-free intermediate assets for one job and owns
// their cleanup. No two jobs may share a workspace.
type Workspace interface {
	// Allocate returns a fresh intermediate asset with a collision-free path
	// scoped to this workspace's job. The file is not created.
	Allocate(label, ext string) media.Asset

	// Track registers an asset created outside Allocate (such as a staging
	// file next to the final output) for cleanup.
	Track(a media.Asset)

	// ReleaseAll attempts to delete every tracked asset. Deletion failures
	// are reported, never propagated. A second call releases nothing.
	ReleaseAll() CleanupReport
}

// WorkspaceFactory creates a workspace scoped to a single job.
type WorkspaceFactory interface {
	New(jobID string) (Workspace, error)
}

// CleanupError reports a temp asset that could not be deleted. It is always
// non-fatal metadata and never aborts the caller-visible result.
type CleanupError struct {
	Path string
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("failed to remove intermediate %s: %v", e.Path, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}

// CleanupReport summarizes a workspace release.
type CleanupReport struct {
	Released []string
	Failures []*CleanupError
}

// Clean reports whether every tracked asset was deleted
func (r CleanupReport) Clean() bool {
	return len(r.Failures) == 0
}

// FailedPaths returns the paths that could not be deleted
func (r CleanupReport) FailedPaths() []string {
	paths := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		paths = append(paths, f.Path)
	}
	return paths
}
