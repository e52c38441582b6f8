package swap

import (
	"context"
	"fmt"
	"io"
	"time"

	"voiceswap/application/combine"
	"voiceswap/application/extract"
	"voiceswap/application/transform"
	"voiceswap/domain/media"
	"voiceswap/domain/pipeline"
	"voiceswap/domain/voice"

	"github.com/sirupsen/logrus"
)

// FileChecker abstracts file existence checks for input validation
type FileChecker interface {
	Exists(path string) bool
}

// Service orchestrates a complete voice swap: extract the audio track,
// re-voice it through the transformation service, and merge the result with
// the original video stream. It is the only component aware of the full
// stage sequence.
type Service struct {
	transcoder  media.Transcoder
	transformer voice.Transformer
	workspaces  pipeline.WorkspaceFactory
	fileChecker FileChecker
	renamer     combine.Renamer

	bitrate string
	logger  logrus.FieldLogger
	output  io.Writer
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithBitrate sets the intermediate audio bitrate
func WithBitrate(bitrate string) Option {
	return func(s *Service) {
		s.bitrate = bitrate
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithProgressOutput sets a writer for human-readable stage progress
func WithProgressOutput(w io.Writer) Option {
	return func(s *Service) {
		s.output = w
	}
}

// NewService creates a new swap orchestrator
func NewService(
	transcoder media.Transcoder,
	transformer voice.Transformer,
	workspaces pipeline.WorkspaceFactory,
	fileChecker FileChecker,
	renamer combine.Renamer,
	opts ...Option,
) *Service {
	s := &Service{
		transcoder:  transcoder,
		transformer: transformer,
		workspaces:  workspaces,
		fileChecker: fileChecker,
		renamer:     renamer,
		bitrate:     media.DefaultAudioBitrate,
		logger:      logrus.StandardLogger(),
		output:      io.Discard,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Input contains all input parameters for one swap job
type Input struct {
	VideoPath  string // Source video path
	Voice      string // Target voice identity
	OutputPath string // Final output path, never overwritten on failure
}

// Result contains the results of a successful swap
type Result struct {
	JobID      string
	OutputPath string
	Elapsed    time.Duration

	// Cleanup reports intermediate deletions. Failures here are metadata,
	// not errors; the swap itself succeeded.
	Cleanup pipeline.CleanupReport
}

// Swap runs the full pipeline for one job. The caller receives either the
// output path or the failing stage's error; intermediates are released on
// every exit path, including caller cancellation, and never surfaced as
// output.
func (s *Service) Swap(ctx context.Context, input Input) (res *Result, err error) {
	start := time.Now()

	job, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithField("job_id", job.ID)

	ws, err := s.workspaces.New(job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate workspace: %w", err)
	}

	defer func() {
		report := ws.ReleaseAll()
		for _, f := range report.Failures {
			log.WithField("path", f.Path).WithError(f.Err).Warn("failed to remove intermediate asset")
		}
		if res != nil {
			res.Cleanup = report
		}
		log.WithFields(logrus.Fields{
			"status":   job.Status(),
			"released": len(report.Released),
			"failed":   len(report.Failures),
		}).Info("workspace released")
	}()

	// Stage 1: extract the audio track.
	fmt.Fprintf(s.output, "[1/3] Extracting audio...\n")
	if err := job.Transition(pipeline.StatusExtracting); err != nil {
		return nil, err
	}
	extracted := ws.Allocate("extracted", "mp3")
	job.AddIntermediate(extracted)

	if err := extract.NewService(s.transcoder, s.bitrate).Extract(ctx, job.Input, extracted); err != nil {
		job.Fail()
		log.WithError(err).Error("extraction stage failed")
		return nil, err
	}

	// Stage 2: re-voice the extracted audio.
	fmt.Fprintf(s.output, "[2/3] Transforming voice...\n")
	if err := job.Transition(pipeline.StatusTransforming); err != nil {
		return nil, err
	}
	transformed := ws.Allocate("transformed", "mp3")
	job.AddIntermediate(transformed)

	if err := transform.NewService(s.transformer).Transform(ctx, extracted, job.Voice, transformed); err != nil {
		job.Fail()
		log.WithError(err).Error("transformation stage failed")
		return nil, err
	}

	// Stage 3: merge the original video stream with the new audio. The
	// original input is used here, never a re-extracted copy.
	fmt.Fprintf(s.output, "[3/3] Combining streams...\n")
	if err := job.Transition(pipeline.StatusCombining); err != nil {
		return nil, err
	}
	staging := media.NewIntermediate(stagingPath(job.OutputPath, job.ID), media.KindVideo)
	ws.Track(staging)
	job.AddIntermediate(staging)

	output, err := combine.NewService(s.transcoder, s.renamer).Combine(ctx, combine.Input{
		Video:       job.Input,
		Audio:       transformed,
		OutputPath:  job.OutputPath,
		StagingPath: staging.Path,
	})
	if err != nil {
		job.Fail()
		log.WithError(err).Error("combine stage failed")
		return nil, err
	}

	if err := job.Transition(pipeline.StatusSucceeded); err != nil {
		return nil, err
	}

	res = &Result{
		JobID:      job.ID,
		OutputPath: output.Path,
		Elapsed:    time.Since(start),
	}
	return res, nil
}

func (s *Service) validate(input Input) (*pipeline.Job, error) {
	if !s.fileChecker.Exists(input.VideoPath) {
		return nil, fmt.Errorf("source video does not exist: %s", input.VideoPath)
	}

	id, err := voice.NewIdentity(input.Voice)
	if err != nil {
		return nil, err
	}

	inputAsset, err := media.NewAsset(input.VideoPath, media.KindVideo)
	if err != nil {
		return nil, err
	}

	return pipeline.NewJob(inputAsset, id, input.OutputPath)
}

// stagingPath names the combiner's temp file next to the final output so the
// publish rename stays on one filesystem.
func stagingPath(outputPath, jobID string) string {
	return fmt.Sprintf("%s.%s.partial", outputPath, jobID)
}
