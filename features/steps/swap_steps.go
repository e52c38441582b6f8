//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"voiceswap/application/swap"
	"voiceswap/domain/media"
	"voiceswap/domain/voice"
	"voiceswap/infrastructure/filesystem"
	"voiceswap/infrastructure/workspace"

	"github.com/cucumber/godog"
	"github.com/sirupsen/logrus"
)

const audioMarker = ";audio"

// fakeTranscoder behaves like ffmpeg over marker files: extraction fails on
// sources without the audio marker, combining concatenates the video marker
// with the replacement audio.
type fakeTranscoder struct {
	mu           sync.Mutex
	combineCalls int
}

func (f *fakeTranscoder) ExtractAudio(ctx context.Context, req *media.ExtractRequest, outputPath string) error {
	content, err := os.ReadFile(req.SourcePath)
	if err != nil {
		return err
	}
	if !strings.Contains(string(content), audioMarker) {
		return errors.New("exit status 1: output file does not contain any stream")
	}
	return os.WriteFile(outputPath, []byte("extracted:"+filepath.Base(req.SourcePath)), 0o644)
}

func (f *fakeTranscoder) Combine(ctx context.Context, req *media.CombineRequest, outputPath string) error {
	f.mu.Lock()
	f.combineCalls++
	f.mu.Unlock()

	video, err := os.ReadFile(req.VideoPath)
	if err != nil {
		return err
	}
	audio, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return err
	}

	videoStream, _, _ := strings.Cut(string(video), audioMarker)
	return os.WriteFile(outputPath, []byte(videoStream+"|"+string(audio)), 0o644)
}

// fakeTransformer re-voices marker audio or rejects every request
type fakeTransformer struct {
	reject bool
}

func (f *fakeTransformer) Transform(ctx context.Context, req *voice.TransformRequest) (io.ReadCloser, error) {
	if f.reject {
		return nil, errors.New("transformation service returned 403 Forbidden: voice not permitted")
	}
	content, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, err
	}
	body := fmt.Sprintf("transformed[%s](%s)", req.Voice, content)
	return io.NopCloser(strings.NewReader(body)), nil
}

// swapContext holds test state for swap scenarios
type swapContext struct {
	sourceDir  string
	scratchDir string
	outputDir  string

	transcoder  *fakeTranscoder
	transformer *fakeTransformer

	sources []string
	err     error
	errs    []error
}

// SharedSwapContext is reset before each scenario via Before hook
var SharedSwapContext *swapContext

func getSwapContext() *swapContext {
	return SharedSwapContext
}

func InitializeSwapScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		base, err := os.MkdirTemp("", "voiceswap-features-")
		if err != nil {
			return c, err
		}
		SharedSwapContext = &swapContext{
			sourceDir:   filepath.Join(base, "sources"),
			scratchDir:  filepath.Join(base, "scratch"),
			outputDir:   filepath.Join(base, "out"),
			transcoder:  &fakeTranscoder{},
			transformer: &fakeTransformer{},
		}
		for _, dir := range []string{SharedSwapContext.sourceDir, SharedSwapContext.outputDir} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return c, err
			}
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedSwapContext != nil {
			os.RemoveAll(filepath.Dir(SharedSwapContext.scratchDir))
			SharedSwapContext = nil
		}
		return c, nil
	})

	ctx.Step(`^a scratch directory$`, aScratchDirectory)
	ctx.Step(`^a source video "([^"]*)" with an audio track$`, aSourceVideoWithAudio)
	ctx.Step(`^a source video "([^"]*)" without an audio track$`, aSourceVideoWithoutAudio)
	ctx.Step(`^the transformation service rejects every request$`, theServiceRejectsEveryRequest)
	ctx.Step(`^I swap the voice to "([^"]*)" writing "([^"]*)"$`, iSwapTheVoice)
	ctx.Step(`^I swap both videos concurrently to "([^"]*)"$`, iSwapBothVideosConcurrently)
	ctx.Step(`^the swap succeeds$`, theSwapSucceeds)
	ctx.Step(`^both swaps succeed$`, bothSwapsSucceed)
	ctx.Step(`^the swap fails at the extraction stage$`, theSwapFailsAtExtraction)
	ctx.Step(`^the swap fails at the transformation stage$`, theSwapFailsAtTransformation)
	ctx.Step(`^the combiner is never invoked$`, theCombinerIsNeverInvoked)
	ctx.Step(`^the output "([^"]*)" carries the original video stream$`, theOutputCarriesTheVideoStream)
	ctx.Step(`^the output "([^"]*)" carries transformed audio$`, theOutputCarriesTransformedAudio)
	ctx.Step(`^no output file "([^"]*)" exists$`, noOutputFileExists)
	ctx.Step(`^no intermediate files remain in the scratch directory$`, noIntermediateFilesRemain)
}

func (s *swapContext) newService() *swap.Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return swap.NewService(
		s.transcoder,
		s.transformer,
		workspace.NewFactory(s.scratchDir),
		filesystem.NewChecker(),
		filesystem.NewMover(),
		swap.WithLogger(logger),
	)
}

func (s *swapContext) run(source, voiceID, output string) error {
	_, err := s.newService().Swap(context.Background(), swap.Input{
		VideoPath:  filepath.Join(s.sourceDir, source),
		Voice:      voiceID,
		OutputPath: filepath.Join(s.outputDir, output),
	})
	return err
}

func aScratchDirectory() error {
	return nil // allocated in the Before hook
}

func writeSource(name, content string) error {
	s := getSwapContext()
	s.sources = append(s.sources, name)
	return os.WriteFile(filepath.Join(s.sourceDir, name), []byte(content), 0o644)
}

func aSourceVideoWithAudio(name string) error {
	return writeSource(name, "video-stream:"+name+audioMarker)
}

func aSourceVideoWithoutAudio(name string) error {
	return writeSource(name, "video-stream:"+name)
}

func theServiceRejectsEveryRequest() error {
	getSwapContext().transformer.reject = true
	return nil
}

func iSwapTheVoice(voiceID, output string) error {
	s := getSwapContext()
	if len(s.sources) == 0 {
		return fmt.Errorf("no source video defined")
	}
	s.err = s.run(s.sources[len(s.sources)-1], voiceID, output)
	return nil
}

func iSwapBothVideosConcurrently(voiceID string) error {
	s := getSwapContext()
	if len(s.sources) != 2 {
		return fmt.Errorf("expected 2 source videos, have %d", len(s.sources))
	}

	s.errs = make([]error, 2)
	var wg sync.WaitGroup
	for i, source := range s.sources {
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			base := strings.TrimSuffix(source, filepath.Ext(source))
			s.errs[i] = s.run(source, voiceID, base+"-out.mp4")
		}(i, source)
	}
	wg.Wait()
	return nil
}

func theSwapSucceeds() error {
	if err := getSwapContext().err; err != nil {
		return fmt.Errorf("swap failed: %w", err)
	}
	return nil
}

func bothSwapsSucceed() error {
	for i, err := range getSwapContext().errs {
		if err != nil {
			return fmt.Errorf("swap %d failed: %w", i, err)
		}
	}
	return nil
}

func theSwapFailsAtExtraction() error {
	var extractionErr *media.ExtractionError
	if !errors.As(getSwapContext().err, &extractionErr) {
		return fmt.Errorf("expected an extraction error, got: %v", getSwapContext().err)
	}
	return nil
}

func theSwapFailsAtTransformation() error {
	var transformErr *voice.TransformationError
	if !errors.As(getSwapContext().err, &transformErr) {
		return fmt.Errorf("expected a transformation error, got: %v", getSwapContext().err)
	}
	return nil
}

func theCombinerIsNeverInvoked() error {
	if calls := getSwapContext().transcoder.combineCalls; calls != 0 {
		return fmt.Errorf("combiner invoked %d time(s)", calls)
	}
	return nil
}

func theOutputCarriesTheVideoStream(output string) error {
	s := getSwapContext()
	content, err := os.ReadFile(filepath.Join(s.outputDir, output))
	if err != nil {
		return fmt.Errorf("output not readable: %w", err)
	}

	source := s.sources[len(s.sources)-1]
	if !strings.HasPrefix(string(content), "video-stream:"+source) {
		return fmt.Errorf("output %q does not start with the source video stream", content)
	}
	return nil
}

func theOutputCarriesTransformedAudio(output string) error {
	s := getSwapContext()
	content, err := os.ReadFile(filepath.Join(s.outputDir, output))
	if err != nil {
		return fmt.Errorf("output not readable: %w", err)
	}
	if !strings.Contains(string(content), "transformed[") {
		return fmt.Errorf("output %q does not carry transformed audio", content)
	}
	return nil
}

func noOutputFileExists(output string) error {
	path := filepath.Join(getSwapContext().outputDir, output)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return fmt.Errorf("output file %s exists", path)
	}
	return nil
}

func noIntermediateFilesRemain() error {
	s := getSwapContext()
	entries, err := os.ReadDir(s.scratchDir)
	if os.IsNotExist(err) {
		return nil // no workspace was ever allocated
	}
	if err != nil {
		return err
	}

	var leftover []string
	for _, e := range entries {
		leftover = append(leftover, e.Name())
	}
	if len(leftover) != 0 {
		return fmt.Errorf("intermediate files remain: %v", leftover)
	}
	return nil
}
