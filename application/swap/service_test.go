package swap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voiceswap/domain/media"
	"voiceswap/domain/pipeline"
	"voiceswap/domain/voice"

	"github.com/sirupsen/logrus"
)

// --- Mock implementations for testing ---

// mockTranscoder implements media.Transcoder and writes real files the way
// ffmpeg would, so cleanup behavior can be observed on disk.
type mockTranscoder struct {
	calls      *[]string
	extractErr error
	combineErr error
}

func (m *mockTranscoder) ExtractAudio(ctx context.Context, req *media.ExtractRequest, outputPath string) error {
	*m.calls = append(*m.calls, "extract")
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.extractErr != nil {
		return m.extractErr
	}
	return os.WriteFile(outputPath, []byte("extracted-audio"), 0o644)
}

func (m *mockTranscoder) Combine(ctx context.Context, req *media.CombineRequest, outputPath string) error {
	*m.calls = append(*m.calls, "combine")
	if m.combineErr != nil {
		return m.combineErr
	}
	return os.WriteFile(outputPath, []byte("combined"), 0o644)
}

// mockTransformer implements voice.Transformer
type mockTransformer struct {
	calls *[]string
	err   error
}

func (m *mockTransformer) Transform(ctx context.Context, req *voice.TransformRequest) (io.ReadCloser, error) {
	*m.calls = append(*m.calls, "transform")
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(strings.NewReader("transformed-audio")), nil
}

// mockFileChecker implements FileChecker
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

type osRenamer struct{}

func (osRenamer) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// fakeWorkspace implements pipeline.Workspace against a real temp directory
type fakeWorkspace struct {
	dir          string
	seq          int
	tracked      []media.Asset
	releaseCalls int
	undeletable  map[string]bool
	lastReport   pipeline.CleanupReport
}

func (w *fakeWorkspace) Allocate(label, ext string) media.Asset {
	w.seq++
	a := media.NewIntermediate(filepath.Join(w.dir, fmt.Sprintf("%02d-%s.%s", w.seq, label, ext)), media.KindForExt(ext))
	w.tracked = append(w.tracked, a)
	return a
}

func (w *fakeWorkspace) Track(a media.Asset) {
	w.tracked = append(w.tracked, a)
}

func (w *fakeWorkspace) ReleaseAll() pipeline.CleanupReport {
	w.releaseCalls++
	var report pipeline.CleanupReport
	for _, a := range w.tracked {
		if w.undeletable[a.Path] {
			report.Failures = append(report.Failures, &pipeline.CleanupError{Path: a.Path, Err: errors.New("permission denied")})
			continue
		}
		if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
			report.Failures = append(report.Failures, &pipeline.CleanupError{Path: a.Path, Err: err})
			continue
		}
		report.Released = append(report.Released, a.Path)
	}
	w.tracked = nil
	w.lastReport = report
	return report
}

type fakeFactory struct {
	ws  *fakeWorkspace
	err error
}

func (f *fakeFactory) New(jobID string) (pipeline.Workspace, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ws, nil
}

// harness bundles a fully-mocked service and its collaborators
type harness struct {
	svc         *Service
	transcoder  *mockTranscoder
	transformer *mockTransformer
	ws          *fakeWorkspace
	calls       []string
	input       Input
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()

	h := &harness{}
	h.transcoder = &mockTranscoder{calls: &h.calls}
	h.transformer = &mockTransformer{calls: &h.calls}
	h.ws = &fakeWorkspace{dir: dir, undeletable: map[string]bool{}}

	videoPath := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(videoPath, []byte("video"), 0o644); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h.svc = NewService(
		h.transcoder,
		h.transformer,
		&fakeFactory{ws: h.ws},
		&mockFileChecker{existingFiles: map[string]bool{videoPath: true}},
		osRenamer{},
		WithLogger(logger),
	)
	h.input = Input{
		VideoPath:  videoPath,
		Voice:      "voice-123",
		OutputPath: filepath.Join(dir, "clip-out.mp4"),
	}
	return h
}

// remainingIntermediates lists workspace files left on disk, excluding the
// job's input and published output.
func (h *harness) remainingIntermediates(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(h.ws.dir)
	if err != nil {
		t.Fatalf("ReadDir() unexpected error: %v", err)
	}
	var leftover []string
	for _, e := range entries {
		if e.Name() == "clip.mp4" || e.Name() == "clip-out.mp4" {
			continue
		}
		leftover = append(leftover, e.Name())
	}
	return leftover
}

// --- Tests ---

func TestSwapSuccess(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Swap(context.Background(), h.input)
	if err != nil {
		t.Fatalf("Swap() unexpected error: %v", err)
	}

	if res.OutputPath != h.input.OutputPath {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, h.input.OutputPath)
	}
	if res.JobID == "" {
		t.Errorf("JobID is empty")
	}
	if !res.Cleanup.Clean() {
		t.Errorf("Cleanup failures = %v, want none", res.Cleanup.FailedPaths())
	}

	wantCalls := []string{"extract", "transform", "combine"}
	if len(h.calls) != len(wantCalls) {
		t.Fatalf("stage calls = %v, want %v", h.calls, wantCalls)
	}
	for i := range wantCalls {
		if h.calls[i] != wantCalls[i] {
			t.Errorf("stage call[%d] = %q, want %q", i, h.calls[i], wantCalls[i])
		}
	}

	got, err := os.ReadFile(h.input.OutputPath)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if string(got) != "combined" {
		t.Errorf("output content = %q, want %q", got, "combined")
	}

	if leftover := h.remainingIntermediates(t); len(leftover) != 0 {
		t.Errorf("intermediates left after success: %v", leftover)
	}
	if h.ws.releaseCalls != 1 {
		t.Errorf("ReleaseAll() called %d times, want 1", h.ws.releaseCalls)
	}
}

func TestSwapExtractionFailure(t *testing.T) {
	h := newHarness(t)
	h.transcoder.extractErr = errors.New("exit status 1: no audio stream")

	_, err := h.svc.Swap(context.Background(), h.input)

	var extractionErr *media.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("Swap() error = %T (%v), want *media.ExtractionError", err, err)
	}

	for _, call := range h.calls {
		if call == "transform" || call == "combine" {
			t.Errorf("stage %q ran after extraction failed", call)
		}
	}
	if _, statErr := os.Stat(h.input.OutputPath); !os.IsNotExist(statErr) {
		t.Errorf("output file exists after a failed job")
	}
	if leftover := h.remainingIntermediates(t); len(leftover) != 0 {
		t.Errorf("intermediates left after failure: %v", leftover)
	}
}

func TestSwapTransformationFailureSkipsCombine(t *testing.T) {
	h := newHarness(t)
	h.transformer.err = errors.New("service rejected the request")

	_, err := h.svc.Swap(context.Background(), h.input)

	var transformErr *voice.TransformationError
	if !errors.As(err, &transformErr) {
		t.Fatalf("Swap() error = %T (%v), want *voice.TransformationError", err, err)
	}

	for _, call := range h.calls {
		if call == "combine" {
			t.Errorf("combine ran after transformation failed")
		}
	}

	// The extracted audio was written and must have been cleaned up.
	found := false
	for _, released := range h.ws.lastReport.Released {
		if strings.Contains(released, "extracted") {
			found = true
		}
	}
	if !found {
		t.Errorf("extracted intermediate not in cleanup accounting: %v", h.ws.lastReport.Released)
	}
	if leftover := h.remainingIntermediates(t); len(leftover) != 0 {
		t.Errorf("intermediates left after failure: %v", leftover)
	}
}

func TestSwapCombineFailure(t *testing.T) {
	h := newHarness(t)
	h.transcoder.combineErr = errors.New("exit status 1: incompatible codec")

	_, err := h.svc.Swap(context.Background(), h.input)

	var combineErr *media.CombineError
	if !errors.As(err, &combineErr) {
		t.Fatalf("Swap() error = %T (%v), want *media.CombineError", err, err)
	}
	if _, statErr := os.Stat(h.input.OutputPath); !os.IsNotExist(statErr) {
		t.Errorf("output file exists after a failed combine")
	}
	if leftover := h.remainingIntermediates(t); len(leftover) != 0 {
		t.Errorf("intermediates left after failure: %v", leftover)
	}
}

func TestSwapCleanupFailureIsNonFatal(t *testing.T) {
	h := newHarness(t)
	stuck := filepath.Join(h.ws.dir, "01-extracted.mp3")
	h.ws.undeletable[stuck] = true

	res, err := h.svc.Swap(context.Background(), h.input)
	if err != nil {
		t.Fatalf("Swap() unexpected error: %v", err)
	}

	if res.Cleanup.Clean() {
		t.Fatalf("Cleanup.Clean() = true, want reported failure for %s", stuck)
	}
	if got := res.Cleanup.FailedPaths(); len(got) != 1 || got[0] != stuck {
		t.Errorf("FailedPaths() = %v, want [%s]", got, stuck)
	}
}

func TestSwapCancellationStillCleansUp(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.svc.Swap(ctx, h.input)
	if err == nil {
		t.Fatalf("Swap() expected error after cancellation, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Swap() error = %v, want context.Canceled in chain", err)
	}
	if h.ws.releaseCalls != 1 {
		t.Errorf("ReleaseAll() called %d times after cancellation, want 1", h.ws.releaseCalls)
	}
}

func TestSwapValidation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{name: "missing source", mutate: func(i *Input) { i.VideoPath = "/nope/clip.mp4" }},
		{name: "empty voice", mutate: func(i *Input) { i.Voice = "" }},
		{name: "empty output", mutate: func(i *Input) { i.OutputPath = "" }},
		{name: "output overwrites input", mutate: func(i *Input) { i.OutputPath = i.VideoPath }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := h.input
			tt.mutate(&input)

			if _, err := h.svc.Swap(context.Background(), input); err == nil {
				t.Errorf("Swap() expected validation error, got nil")
			}
			if len(h.calls) != 0 {
				t.Errorf("stages ran despite invalid input: %v", h.calls)
			}
		})
	}
}

func TestSwapWorkspaceAllocationFailure(t *testing.T) {
	h := newHarness(t)
	wsErr := errors.New("scratch directory not writable")

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewService(
		h.transcoder,
		h.transformer,
		&fakeFactory{err: wsErr},
		&mockFileChecker{existingFiles: map[string]bool{h.input.VideoPath: true}},
		osRenamer{},
		WithLogger(logger),
	)

	if _, err := svc.Swap(context.Background(), h.input); !errors.Is(err, wsErr) {
		t.Errorf("Swap() error = %v, want wrapped %v", wsErr, wsErr)
	}
}
