package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"voiceswap/domain/media"
	"voiceswap/domain/pipeline"

	"github.com/google/uuid"
)

// Workspace implements pipeline.Workspace on the local filesystem. Allocated
// paths combine the job ID, a timestamp, a per-workspace counter, and a
// random fragment, so concurrent jobs sharing a scratch directory never
// collide.
type Workspace struct {
	dir   string
	jobID string

	mu       sync.Mutex
	seq      int
	tracked  []media.Asset
	released bool
}

// New creates a workspace for one job under the scratch directory, creating
// the directory if absent.
func New(scratchDir, jobID string) (*Workspace, error) {
	if scratchDir == "" {
		return nil, fmt.Errorf("scratch directory is required")
	}
	if jobID == "" {
		return nil, fmt.Errorf("job ID is required")
	}

	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	return &Workspace{dir: scratchDir, jobID: jobID}, nil
}

// Allocate implements pipeline.Workspace
func (w *Workspace) Allocate(label, ext string) media.Asset {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.seq++
	name := fmt.Sprintf("%s-%d-%02d-%s-%s.%s",
		w.jobID, time.Now().UnixNano(), w.seq, shortID(), label, ext)

	asset := media.NewIntermediate(filepath.Join(w.dir, name), media.KindForExt(ext))
	w.tracked = append(w.tracked, asset)
	return asset
}

// Track implements pipeline.Workspace
func (w *Workspace) Track(a media.Asset) {
	if !a.Intermediate {
		return // never delete externally-supplied assets
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.tracked = append(w.tracked, a)
}

// ReleaseAll implements pipeline.Workspace. Assets that were allocated but
// never written count as released; anything else that cannot be removed is
// reported as a CleanupError.
func (w *Workspace) ReleaseAll() pipeline.CleanupReport {
	w.mu.Lock()
	defer w.mu.Unlock()

	var report pipeline.CleanupReport
	if w.released {
		return report
	}
	w.released = true

	for _, a := range w.tracked {
		err := os.Remove(a.Path)
		if err == nil || os.IsNotExist(err) {
			report.Released = append(report.Released, a.Path)
			continue
		}
		report.Failures = append(report.Failures, &pipeline.CleanupError{Path: a.Path, Err: err})
	}

	w.tracked = nil
	return report
}

func shortID() string {
	return uuid.NewString()[:8]
}

// Ensure Workspace implements pipeline.Workspace
var _ pipeline.Workspace = (*Workspace)(nil)

// Factory creates per-job workspaces rooted at a shared scratch directory
type Factory struct {
	scratchDir string
}

// NewFactory creates a workspace factory
func NewFactory(scratchDir string) *Factory {
	return &Factory{scratchDir: scratchDir}
}

// New implements pipeline.WorkspaceFactory
func (f *Factory) New(jobID string) (pipeline.Workspace, error) {
	return New(f.scratchDir, jobID)
}

// Ensure Factory implements pipeline.WorkspaceFactory
var _ pipeline.WorkspaceFactory = (*Factory)(nil)
